package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pfrederiksen/troop-events/internal/event"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

var records = []event.Record{
	{
		Name: "Leaf Center Service Project", StartDate: "2025-11-29", EndDate: "2025-11-29",
		Category: event.CategoryServiceProject,
		Scouts:   []string{"Jon Smith"}, Adults: []string{"Mary Jones"},
	},
	{
		Name: "Winter Camp", StartDate: "2025-12-05", EndDate: "2025-12-05",
		Category: event.CategoryCamping,
		Scouts:   []string{"Ann Lee", "Jon Smith"}, Adults: []string{},
	},
	{
		Name: "Fall Camporee", StartDate: "2025-10-04", EndDate: "2025-10-04",
		Category: event.CategoryCamping,
		Scouts:   []string{"Ann Lee"}, Adults: []string{},
	},
	{
		Name: "Mystery Hike", Category: event.CategoryOther,
		Scouts: []string{"Jon Smith"}, Adults: []string{},
	},
}

func names(rs []event.Record) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Name
	}
	return out
}

func TestFilter_IsEmpty(t *testing.T) {
	tests := []struct {
		name   string
		filter *Filter
		want   bool
	}{
		{"empty filter", NewFilter(), true},
		{"zero value", &Filter{}, true},
		{"date from", &Filter{DateFrom: timePtr(now)}, false},
		{"category", &Filter{Categories: []event.Category{event.CategoryCamping}}, false},
		{"name", &Filter{Names: []string{"camp"}}, false},
		{"person", &Filter{People: []string{"jon"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.IsEmpty())
		})
	}
}

func TestFilter_Apply(t *testing.T) {
	tests := []struct {
		name   string
		filter *Filter
		want   []string
	}{
		{
			name:   "empty filter keeps everything",
			filter: NewFilter(),
			want:   []string{"Leaf Center Service Project", "Winter Camp", "Fall Camporee", "Mystery Hike"},
		},
		{
			name:   "date range is inclusive and drops undated records",
			filter: &Filter{DateFrom: timePtr(date(2025, 11, 29)), DateTo: timePtr(date(2025, 12, 5))},
			want:   []string{"Leaf Center Service Project", "Winter Camp"},
		},
		{
			name:   "time of day on bounds is ignored",
			filter: &Filter{DateTo: timePtr(time.Date(2025, 11, 29, 8, 0, 0, 0, time.UTC))},
			want:   []string{"Leaf Center Service Project", "Fall Camporee"},
		},
		{
			name:   "category",
			filter: &Filter{Categories: []event.Category{event.CategoryCamping}},
			want:   []string{"Winter Camp", "Fall Camporee"},
		},
		{
			name:   "name substring",
			filter: &Filter{Names: []string{"CAMP"}},
			want:   []string{"Winter Camp", "Fall Camporee"},
		},
		{
			name:   "person matches scouts and adults",
			filter: &Filter{People: []string{"mary"}},
			want:   []string{"Leaf Center Service Project"},
		},
		{
			name:   "criteria combine",
			filter: &Filter{Categories: []event.Category{event.CategoryCamping}, People: []string{" jon "}},
			want:   []string{"Winter Camp"},
		},
		{
			name:   "nothing matches",
			filter: &Filter{Names: []string{"regatta"}},
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(tt.filter.Apply(records)))
		})
	}
}

func TestFilter_String(t *testing.T) {
	assert.Equal(t, "No active filters", NewFilter().String())

	f := &Filter{
		DateFrom:   timePtr(date(2025, 11, 1)),
		DateTo:     timePtr(date(2025, 11, 30)),
		Categories: []event.Category{event.CategoryCamping, event.CategoryFundraiser},
		People:     []string{"jon"},
	}
	assert.Equal(t, "From: Nov 1, 2025 | To: Nov 30, 2025 | Categories: Camping, Fundraiser | People: jon", f.String())
}
