package eval

import (
	"testing"

	"github.com/OFFIS-RIT/quizbench/backend/pkg/common"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/loader"
)

func TestSamplesFromRecords(t *testing.T) {
	reference := []loader.Record{
		{ID: 3, Source: "reclor", Questions: []common.Question{{Content: "ref three"}}},
		{ID: 1, Source: "dream", Questions: []common.Question{{Content: "ref one"}}},
		{ID: 2, Source: "dream", Questions: []common.Question{{Content: "ref two"}}},
	}
	candidate := []loader.Record{
		{ID: 1, Source: "dream", Questions: []common.Question{{Content: "cand one"}}},
		{ID: 3, Source: "reclor", Questions: []common.Question{{Content: "cand three"}}},
		{ID: 9, Source: "dream", Questions: []common.Question{{Content: "unpaired"}}},
	}

	samples := SamplesFromRecords(reference, candidate)
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, received %d", len(samples))
	}
	if samples[0].ID != 1 || samples[1].ID != 3 {
		t.Fatalf("unexpected sample ids: %d, %d", samples[0].ID, samples[1].ID)
	}
	if samples[0].Source != "dream" || samples[1].Source != "reclor" {
		t.Fatalf("unexpected sources: %q, %q", samples[0].Source, samples[1].Source)
	}
	if samples[0].Reference[0].Content != "ref one" {
		t.Fatalf("unexpected reference question %q", samples[0].Reference[0].Content)
	}
	if samples[0].Candidate[0].Content != "cand one" {
		t.Fatalf("unexpected candidate question %q", samples[0].Candidate[0].Content)
	}
}

func TestSamplesFromRecordsSourceFallback(t *testing.T) {
	reference := []loader.Record{{ID: 1, Questions: []common.Question{{Content: "ref"}}}}
	candidate := []loader.Record{{ID: 1, Questions: []common.Question{{Content: "cand"}}}}

	samples := SamplesFromRecords(reference, candidate)
	if len(samples) != 1 {
		t.Fatalf("expected 1 sample, received %d", len(samples))
	}
	if samples[0].Source != "unknown" {
		t.Fatalf("expected source fallback, received %q", samples[0].Source)
	}
}

func TestSamplesFromRecordsNoOverlap(t *testing.T) {
	reference := []loader.Record{{ID: 1}}
	candidate := []loader.Record{{ID: 2}}

	if samples := SamplesFromRecords(reference, candidate); len(samples) != 0 {
		t.Fatalf("expected no samples, received %d", len(samples))
	}
}
