package eval

import (
	"sort"

	"github.com/OFFIS-RIT/quizbench/backend/pkg/loader"
)

const unknownSource = "unknown"

// SamplesFromRecords pairs reference and candidate records on their
// shared ids, in ascending id order. Records present on only one side
// are dropped. Each sample takes its source from the reference record,
// falling back to "unknown" when it is blank.
func SamplesFromRecords(reference, candidate []loader.Record) []Sample {
	refByID := make(map[int]loader.Record, len(reference))
	for _, record := range reference {
		refByID[record.ID] = record
	}
	candByID := make(map[int]loader.Record, len(candidate))
	for _, record := range candidate {
		candByID[record.ID] = record
	}

	ids := make([]int, 0, len(refByID))
	for id := range refByID {
		if _, ok := candByID[id]; ok {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	samples := make([]Sample, 0, len(ids))
	for _, id := range ids {
		ref := refByID[id]
		source := ref.Source
		if source == "" {
			source = unknownSource
		}
		samples = append(samples, Sample{
			ID:        id,
			Source:    source,
			Reference: ref.Questions,
			Candidate: candByID[id].Questions,
		})
	}
	return samples
}
