package event

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate     SortOrder = "date"
	SortByName     SortOrder = "name"
	SortByCategory SortOrder = "category"
	SortBySize     SortOrder = "size"
)

// ParseSortOrder validates a sort order name.
func ParseSortOrder(name string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(name))); o {
	case SortByDate, SortByName, SortByCategory, SortBySize:
		return o, nil
	case "":
		return SortByDate, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (must be date, name, category or size)", name)
	}
}

// Sort sorts records in place. Ties fall back to date order.
func Sort(records []Record, order SortOrder) {
	switch order {
	case SortByName:
		sort.SliceStable(records, func(i, j int) bool {
			if !strings.EqualFold(records[i].Name, records[j].Name) {
				return lowerLess(records[i].Name, records[j].Name)
			}
			return lessByDate(records[i], records[j])
		})
	case SortByCategory:
		sort.SliceStable(records, func(i, j int) bool {
			if records[i].Category != records[j].Category {
				return categoryRank(records[i].Category) < categoryRank(records[j].Category)
			}
			return lessByDate(records[i], records[j])
		})
	case SortBySize:
		sort.SliceStable(records, func(i, j int) bool {
			si := len(records[i].Scouts) + len(records[i].Adults)
			sj := len(records[j].Scouts) + len(records[j].Adults)
			if si != sj {
				return si > sj
			}
			return lessByDate(records[i], records[j])
		})
	default:
		SortChronologically(records)
	}
}

func categoryRank(c Category) int {
	for i, cat := range Categories {
		if cat == c {
			return i
		}
	}
	return len(Categories)
}

func lowerLess(a, b string) bool {
	return strings.ToLower(a) < strings.ToLower(b)
}

// SortChronologically orders records by start date, then name (case-insensitive).
// Records with unparsable dates sort last.
func SortChronologically(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return lessByDate(records[i], records[j])
	})
}

func lessByDate(a, b Record) bool {
	da := ParseDate(a.StartDate, time.UTC)
	db := ParseDate(b.StartDate, time.UTC)

	if !da.IsZero() && !db.IsZero() && !da.Equal(db) {
		return da.Before(db)
	}
	if da.IsZero() != db.IsZero() {
		return !da.IsZero()
	}
	return lowerLess(a.Name, b.Name)
}
