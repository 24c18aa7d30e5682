package domain

import (
	m "faultline.dev/pkg/faultline/internal/model"
)

// DefaultReplayLimit is how many seeds a replay reproduces when no limit is given.
const DefaultReplayLimit = 5

// SelectReplaySeeds returns the seeds of the first limit records of specName
// with the given outcome, in table order.
func SelectReplaySeeds(records []m.TrialRecord, specName string, outcome m.Outcome, limit int) []uint32 {
	if limit <= 0 {
		limit = DefaultReplayLimit
	}

	seeds := []uint32{}

	for _, record := range records {
		if len(seeds) == limit {
			break
		}

		if record.Spec == specName && record.Outcome == string(outcome) {
			seeds = append(seeds, record.Seed)
		}
	}

	return seeds
}
