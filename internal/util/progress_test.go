package util

import "testing"

func TestJobProgressPercent(t *testing.T) {
	tests := []struct {
		name     string
		progress JobProgress
		want     int32
	}{
		{
			name:     "pending",
			progress: JobProgress{Stage: JobStagePending},
			want:     0,
		},
		{
			name:     "loading",
			progress: JobProgress{Stage: JobStageLoading},
			want:     5,
		},
		{
			name:     "parsing",
			progress: JobProgress{Stage: JobStageParsing},
			want:     15,
		},
		{
			name:     "scoring start",
			progress: JobProgress{Stage: JobStageScoring, Done: 0, Total: 40},
			want:     20,
		},
		{
			name:     "scoring halfway",
			progress: JobProgress{Stage: JobStageScoring, Done: 20, Total: 40},
			want:     55,
		},
		{
			name:     "scoring all samples",
			progress: JobProgress{Stage: JobStageScoring, Done: 40, Total: 40},
			want:     90,
		},
		{
			name:     "scoring done exceeds total",
			progress: JobProgress{Stage: JobStageScoring, Done: 50, Total: 40},
			want:     90,
		},
		{
			name:     "scoring without totals",
			progress: JobProgress{Stage: JobStageScoring},
			want:     20,
		},
		{
			name:     "aggregating",
			progress: JobProgress{Stage: JobStageAggregating},
			want:     95,
		},
		{
			name:     "completed",
			progress: JobProgress{Stage: JobStageCompleted},
			want:     100,
		},
		{
			name:     "failed",
			progress: JobProgress{Stage: JobStageFailed},
			want:     100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.progress.Percent()
			if got != tt.want {
				t.Errorf("Percent() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestJobProgressLabel(t *testing.T) {
	p := JobProgress{Stage: JobStageScoring, Done: 12, Total: 40}
	if got := p.Label(); got != "scoring 12/40" {
		t.Errorf("Label() = %q, want %q", got, "scoring 12/40")
	}

	p = JobProgress{Stage: JobStageParsing}
	if got := p.Label(); got != "parsing" {
		t.Errorf("Label() = %q, want %q", got, "parsing")
	}
}
