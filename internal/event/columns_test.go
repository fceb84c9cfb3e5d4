package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnSpecResolve(t *testing.T) {
	tests := []struct {
		name    string
		spec    columnSpec
		columns []string
		want    string
	}{
		{
			name:    "event signup label beats plain event label",
			spec:    eventColumn,
			columns: []string{"Timestamp", "Event Date", "Which EVENT are you SIGNING up for? (Event Signup)"},
			want:    "Which EVENT are you SIGNING up for? (Event Signup)",
		},
		{
			name:    "activity label",
			spec:    eventColumn,
			columns: []string{"Timestamp", "Name", "Activity"},
			want:    "Activity",
		},
		{
			name:    "event falls back to position 1",
			spec:    eventColumn,
			columns: []string{"Timestamp", "Column2", "Column3"},
			want:    "Column2",
		},
		{
			name:    "event falls back to literal label",
			spec:    eventColumn,
			columns: []string{"Timestamp"},
			want:    DefaultEventColumn,
		},
		{
			name:    "first name by label",
			spec:    firstColumn,
			columns: []string{"Scout First Name", "Scout Last Name"},
			want:    "Scout First Name",
		},
		{
			name:    "first name by position",
			spec:    firstColumn,
			columns: []string{"A", "B", "C", "D"},
			want:    "C",
		},
		{
			name:    "last name by label",
			spec:    lastColumn,
			columns: []string{"LAST NAME", "First Name"},
			want:    "LAST NAME",
		},
		{
			name:    "last name fallback",
			spec:    lastColumn,
			columns: nil,
			want:    DefaultLastColumn,
		},
		{
			name:    "role by leader label",
			spec:    roleColumn,
			columns: []string{"Event", "Troop Leader?"},
			want:    "Troop Leader?",
		},
		{
			name:    "role by position 6",
			spec:    roleColumn,
			columns: []string{"A", "B", "C", "D", "E", "F", "G"},
			want:    "G",
		},
		{
			name:    "role fallback",
			spec:    roleColumn,
			columns: []string{"A", "B"},
			want:    DefaultRoleColumn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.spec.resolve(tt.columns))
		})
	}
}

func TestResolveColumns(t *testing.T) {
	cols := ResolveColumns([]string{
		"Timestamp", "Event Signup", "First Name", "Last Name", "Email", "Phone", "Patrol Leader - Patrol?",
	})

	assert.Equal(t, Columns{
		Event: "Event Signup",
		First: "First Name",
		Last:  "Last Name",
		Role:  "Patrol Leader - Patrol?",
	}, cols)
}
