package eval

import (
	"fmt"
	"sort"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/olekukonko/tablewriter"
)

// Report is the persisted outcome of one evaluation run: per-source
// aggregates plus the per-sample detail records they were computed
// from.
type Report struct {
	PublicID  string                    `json:"public_id"`
	Dataset   string                    `json:"dataset"`
	Model     string                    `json:"model"`
	CreatedAt time.Time                 `json:"created_at"`
	RunTimeMs int64                     `json:"run_time_ms"`
	Sources   map[string]*SourceMetrics `json:"sources"`
	Results   []SampleResult            `json:"results"`
}

// NewReport assembles a report and assigns it a fresh public id.
func NewReport(
	dataset string,
	model string,
	sources map[string]*SourceMetrics,
	results []SampleResult,
	runTime time.Duration,
) (*Report, error) {
	publicID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate report id: %w", err)
	}

	return &Report{
		PublicID:  publicID,
		Dataset:   dataset,
		Model:     model,
		CreatedAt: time.Now().UTC(),
		RunTimeMs: runTime.Milliseconds(),
		Sources:   sources,
		Results:   results,
	}, nil
}

// FormatReport renders the per-source aggregate tables as text.
// Corpus-level fields without a value print as n/a.
func FormatReport(report *Report) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Dataset: %s\n", report.Dataset)
	fmt.Fprintf(&sb, "Model: %s\n", report.Model)

	for _, source := range sortedSources(report.Sources) {
		metrics := report.Sources[source]

		fmt.Fprintf(&sb, "\nSource: %s\n", source)
		fmt.Fprintf(&sb, "  Samples: %d (failed: %d)\n", metrics.Samples, metrics.Failed)
		fmt.Fprintf(&sb, "  Reference questions: %d\n", metrics.TotalReference)
		fmt.Fprintf(&sb, "  Candidate questions: %d\n", metrics.TotalCandidate)

		table := tablewriter.NewWriter(&sb)
		table.Header("Metric", "Mean", "Std", "Min", "Max")
		for _, name := range sortedMetrics(metrics.Metrics) {
			stats := metrics.Metrics[name]
			table.Append(name,
				fmt.Sprintf("%.4f", stats.Mean),
				fmt.Sprintf("%.4f", stats.Std),
				fmt.Sprintf("%.4f", stats.Min),
				fmt.Sprintf("%.4f", stats.Max))
		}
		table.Append("frechet_distance", formatOptional(metrics.FrechetDistance), "", "", "")
		table.Append("centroid_similarity", formatOptional(metrics.CentroidSimilarity), "", "", "")
		_ = table.Render()
	}

	return sb.String()
}

func formatOptional(value *float64) string {
	if value == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", *value)
}

func sortedSources(sources map[string]*SourceMetrics) []string {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// sortedMetrics orders the lexical metrics ahead of the semantic ones,
// with anything unknown appended alphabetically.
func sortedMetrics(metrics map[string]MetricStats) []string {
	order := map[string]int{"bleu4": 0, "rougeL": 1, cosineMetric: 2}

	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ri, iKnown := order[names[i]]
		rj, jKnown := order[names[j]]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown:
			return true
		case jKnown:
			return false
		default:
			return names[i] < names[j]
		}
	})
	return names
}
