package event

import "strings"

// Fallback labels used when neither a label rule nor a column position
// resolves a field.
const (
	DefaultEventColumn = "Event"
	DefaultFirstColumn = "First Name"
	DefaultLastColumn  = "Last Name"
	DefaultRoleColumn  = "Patrol Leader - Patrol?"
)

// columnRule reports whether a lowercased column label identifies a field.
type columnRule func(label string) bool

// columnSpec resolves one field. Rules are tried in order against every
// column; the first rule with a matching column wins. If none matches, the
// column at position is used, then the fallback label.
type columnSpec struct {
	rules    []columnRule
	position int
	fallback string
}

var (
	eventColumn = columnSpec{
		rules:    []columnRule{containsAll("event", "signup"), containsAny("event", "activity")},
		position: 1,
		fallback: DefaultEventColumn,
	}
	firstColumn = columnSpec{
		rules:    []columnRule{containsAll("first", "name")},
		position: 2,
		fallback: DefaultFirstColumn,
	}
	lastColumn = columnSpec{
		rules:    []columnRule{containsAll("last", "name")},
		position: 3,
		fallback: DefaultLastColumn,
	}
	roleColumn = columnSpec{
		rules:    []columnRule{containsAny("patrol", "leader")},
		position: 6,
		fallback: DefaultRoleColumn,
	}
)

func (s columnSpec) resolve(columns []string) string {
	for _, rule := range s.rules {
		for _, col := range columns {
			if rule(strings.ToLower(col)) {
				return col
			}
		}
	}
	if s.position < len(columns) && strings.TrimSpace(columns[s.position]) != "" {
		return columns[s.position]
	}
	return s.fallback
}

func containsAll(words ...string) columnRule {
	return func(label string) bool {
		for _, w := range words {
			if !strings.Contains(label, w) {
				return false
			}
		}
		return true
	}
}

func containsAny(words ...string) columnRule {
	return func(label string) bool {
		for _, w := range words {
			if strings.Contains(label, w) {
				return true
			}
		}
		return false
	}
}

// Columns names the sheet columns that hold each signup field.
type Columns struct {
	Event string `json:"event"`
	First string `json:"first"`
	Last  string `json:"last"`
	Role  string `json:"role"`
}

// ResolveColumns picks the event, first-name, last-name and role columns
// from the sheet's labels. Resolution never fails; see columnSpec.
func ResolveColumns(columns []string) Columns {
	return Columns{
		Event: eventColumn.resolve(columns),
		First: firstColumn.resolve(columns),
		Last:  lastColumn.resolve(columns),
		Role:  roleColumn.resolve(columns),
	}
}
