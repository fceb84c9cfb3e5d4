package event

// nameSet is an ordered set of names compared by NormalizeName.
type nameSet struct {
	names []string
	seen  map[string]bool
}

func newNameSet() *nameSet {
	return &nameSet{names: []string{}, seen: make(map[string]bool)}
}

// add keeps the first-seen spelling of a name.
func (s *nameSet) add(name string) {
	key := NormalizeName(name)
	if s.seen[key] {
		return
	}
	s.seen[key] = true
	s.names = append(s.names, name)
}

// builder accumulates one Record during aggregation.
type builder struct {
	record Record
	scouts *nameSet
	adults *nameSet
}

// Aggregate folds signups into one Record per event key, in first-seen key
// order. Each person appears at most once per record in Scouts or Adults.
// Invalid signups are skipped.
func Aggregate(signups []Signup) []Record {
	index := make(map[string]*builder)
	order := make([]*builder, 0)

	for _, s := range signups {
		if !s.Valid() {
			continue
		}

		if s.EndDate == "" {
			s.EndDate = s.StartDate
		}
		key := s.Key()
		b, ok := index[key]
		if !ok {
			b = &builder{
				record: Record{
					Name:      s.EventName,
					StartDate: s.StartDate,
					EndDate:   s.EndDate,
					Category:  s.Category,
				},
				scouts: newNameSet(),
				adults: newNameSet(),
			}
			index[key] = b
			order = append(order, b)
		}

		if s.IsAdult {
			b.adults.add(s.PersonName)
		} else {
			b.scouts.add(s.PersonName)
		}
	}

	records := make([]Record, 0, len(order))
	for _, b := range order {
		r := b.record
		r.Scouts = b.scouts.names
		r.Adults = b.adults.names
		records = append(records, r)
	}
	return records
}
