package model

// MaxSummaryExamples caps the failing examples kept per spec in a summary.
const MaxSummaryExamples = 5

// SummaryExample is one failing trial shown in the summary.
type SummaryExample struct {
	Seed      uint32
	Outcome   string
	Exception string
	InputB64  string
}

// SpecSummary aggregates the trials of one spec.
type SpecSummary struct {
	Name      string
	Kind      string
	Total     int
	Pass      int
	Incorrect int
	Exception int
	Examples  []SummaryExample
}

// Failures returns the number of non-passing trials.
func (s SpecSummary) Failures() int {
	return s.Incorrect + s.Exception
}

// Summary groups trial records by spec, in order of first appearance.
type Summary struct {
	Specs []SpecSummary
}

// Totals sums every spec group.
func (s Summary) Totals() SpecSummary {
	total := SpecSummary{Name: "total"}
	for _, spec := range s.Specs {
		total.Total += spec.Total
		total.Pass += spec.Pass
		total.Incorrect += spec.Incorrect
		total.Exception += spec.Exception
	}

	return total
}
