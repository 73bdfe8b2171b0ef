package util

import "fmt"

const (
	JobStagePending     = "pending"
	JobStageLoading     = "loading"
	JobStageParsing     = "parsing"
	JobStageScoring     = "scoring"
	JobStageAggregating = "aggregating"
	JobStageCompleted   = "completed"
	JobStageFailed      = "failed"
)

// JobProgress describes how far an evaluation job has come. Done and
// Total count samples and only matter during the scoring stage.
type JobProgress struct {
	Stage string
	Done  int
	Total int
}

const (
	scoringFloor   int64 = 20
	scoringCeiling int64 = 90
)

// Percent maps the job onto a 0..100 scale. Loading and parsing cover
// the first fifth, per-sample scoring the wide middle band, aggregation
// and persistence the rest.
func (p JobProgress) Percent() int32 {
	switch p.Stage {
	case JobStagePending:
		return 0
	case JobStageLoading:
		return 5
	case JobStageParsing:
		return 15
	case JobStageScoring:
		if p.Total <= 0 {
			return int32(scoringFloor)
		}
		done := min(int64(p.Done), int64(p.Total))
		span := scoringCeiling - scoringFloor
		return int32(scoringFloor + done*span/int64(p.Total))
	case JobStageAggregating:
		return 95
	case JobStageCompleted, JobStageFailed:
		return 100
	}
	return 0
}

// Label renders the progress for status endpoints, e.g. "scoring 12/40".
func (p JobProgress) Label() string {
	if p.Stage == JobStageScoring && p.Total > 0 {
		return fmt.Sprintf("%s %d/%d", p.Stage, p.Done, p.Total)
	}
	return p.Stage
}
