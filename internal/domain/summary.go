package domain

import (
	m "faultline.dev/pkg/faultline/internal/model"
)

// Summarize groups records by spec in order of first appearance and keeps the
// first failing examples of each spec.
func Summarize(records []m.TrialRecord) m.Summary {
	index := map[string]int{}
	summary := m.Summary{Specs: []m.SpecSummary{}}

	for _, record := range records {
		pos, ok := index[record.Spec]
		if !ok {
			pos = len(summary.Specs)
			index[record.Spec] = pos
			summary.Specs = append(summary.Specs, m.SpecSummary{Name: record.Spec, Kind: record.Kind})
		}

		spec := &summary.Specs[pos]
		spec.Total++

		switch m.Outcome(record.Outcome) {
		case m.OutcomePass:
			spec.Pass++
			continue
		case m.OutcomeIncorrect:
			spec.Incorrect++
		case m.OutcomeException:
			spec.Exception++
		}

		if len(spec.Examples) < m.MaxSummaryExamples {
			spec.Examples = append(spec.Examples, m.SummaryExample{
				Seed:      record.Seed,
				Outcome:   record.Outcome,
				Exception: record.Exception,
				InputB64:  record.MutatedB64,
			})
		}
	}

	return summary
}

// Records converts results to their tabular form, keeping order.
func Records(results []m.TrialResult) []m.TrialRecord {
	records := make([]m.TrialRecord, 0, len(results))
	for _, result := range results {
		records = append(records, result.Record())
	}

	return records
}
