package event

import (
	"crypto/sha1"
	"fmt"
	"strings"
)

// Category classifies an event by the kind of activity.
type Category string

const (
	CategoryEagleProject   Category = "EagleProject"
	CategoryServiceProject Category = "ServiceProject"
	CategoryFundraiser     Category = "Fundraiser"
	CategoryCamping        Category = "Camping"
	CategoryOther          Category = "Other"
)

// Categories lists every category in classification order.
var Categories = []Category{
	CategoryEagleProject,
	CategoryServiceProject,
	CategoryFundraiser,
	CategoryCamping,
	CategoryOther,
}

// ParseCategory matches a category by name, ignoring case, spaces, dashes
// and underscores ("service-project", "Service Project", "serviceproject").
func ParseCategory(name string) (Category, error) {
	key := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(name))
	for _, c := range Categories {
		if strings.ToLower(string(c)) == key {
			return c, nil
		}
	}
	if key == "camp" {
		return CategoryCamping, nil
	}
	return "", fmt.Errorf("unknown category: %q", name)
}

// Signup is a single person's registration for a single event, derived from
// one sheet row.
type Signup struct {
	PersonName   string   `json:"person_name"`
	EventNameRaw string   `json:"event_name_raw"`
	EventName    string   `json:"event_name"`
	StartDate    string   `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate      string   `json:"end_date,omitempty"`   // YYYY-MM-DD
	Category     Category `json:"category"`
	IsAdult      bool     `json:"is_adult"`
}

// Valid reports whether the signup can be grouped into an event.
func (s Signup) Valid() bool {
	return s.EventName != "" && s.StartDate != "" && s.PersonName != ""
}

// Key returns the aggregation key shared by every signup for the same event.
func (s Signup) Key() string {
	return recordKey(s.EventName, s.StartDate, s.EndDate)
}

// Record is a deduplicated event with the people signed up for it.
type Record struct {
	Name      string   `json:"name"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Category  Category `json:"category"`
	Scouts    []string `json:"scouts"`
	Adults    []string `json:"adults"`
}

// Key returns the record identity: lowercase "name_start_end".
func (r Record) Key() string {
	return recordKey(r.Name, r.StartDate, r.EndDate)
}

// ID returns a stable identifier derived from the record key.
func (r Record) ID() string {
	return GenerateID(r.Key())
}

// Date returns the date used for past/future comparisons: the end date when
// set, otherwise the start date.
func (r Record) Date() string {
	if r.EndDate != "" {
		return r.EndDate
	}
	return r.StartDate
}

// HasScout reports whether name is registered as a scout (case-insensitive,
// surrounding whitespace ignored).
func (r Record) HasScout(name string) bool {
	return containsName(r.Scouts, name)
}

// NormalizeName returns the comparison form of a person name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// GenerateID creates a deterministic SHA1 hex ID for a key.
func GenerateID(key string) string {
	h := sha1.New()
	h.Write([]byte(key))
	return fmt.Sprintf("%x", h.Sum(nil))
}

func recordKey(name, start, end string) string {
	return strings.ToLower(name + "_" + start + "_" + end)
}

func containsName(names []string, name string) bool {
	want := NormalizeName(name)
	for _, n := range names {
		if NormalizeName(n) == want {
			return true
		}
	}
	return false
}
