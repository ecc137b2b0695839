package player

// Criteria selects records with Level > MinLevel and APM > MinAPM
type Criteria struct {
	MinLevel float64
	MinAPM   float64
}

// DefaultCriteria keeps ascension levels above 90 with a positive APM
var DefaultCriteria = Criteria{MinLevel: 90, MinAPM: 0}

// Accepts reports whether a record passes both thresholds
func (c Criteria) Accepts(r Record) bool {
	return r.Level > c.MinLevel && r.APM > c.MinAPM
}

// Filter applies DefaultCriteria
func Filter(d Dataset) Dataset {
	return FilterBy(d, DefaultCriteria)
}

// FilterBy returns the accepted records in their original order.
// The input is never modified.
func FilterBy(d Dataset, c Criteria) Dataset {
	out := make(Dataset, 0, len(d))
	for _, r := range d {
		if c.Accepts(r) {
			out = append(out, r)
		}
	}
	return out
}
