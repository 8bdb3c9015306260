package aggregator

import (
	"context"
	"testing"
	"time"

	"github.com/atikulmunna/log2src/internal/model"
)

func resolvedMapping() model.LogMapping {
	return model.LogMapping{SrcRef: model.SourceRef{SourcePath: "a.go", LineNumber: 3, Name: "Run"}}
}

func unmatchedMapping() model.LogMapping {
	return model.Unmatched()
}

func TestEPSCalculation(t *testing.T) {
	ch := make(chan model.LogMapping, 100)
	agg := New(ch, func() int64 { return 0 })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go agg.Start(ctx)

	for i := 0; i < 10; i++ {
		ch <- resolvedMapping()
	}

	time.Sleep(200 * time.Millisecond)

	stats := agg.Snapshot()
	if stats.TotalMappings != 10 {
		t.Errorf("expected 10 total mappings, got %d", stats.TotalMappings)
	}
	if stats.EPS <= 0 {
		t.Errorf("expected positive EPS, got %f", stats.EPS)
	}

	cancel()
}

func TestResolvedAndUnmatchedCounts(t *testing.T) {
	ch := make(chan model.LogMapping, 100)
	agg := New(ch, func() int64 { return 0 })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go agg.Start(ctx)

	ch <- resolvedMapping()
	ch <- resolvedMapping()
	ch <- unmatchedMapping()

	time.Sleep(200 * time.Millisecond)

	stats := agg.Snapshot()
	if stats.Resolved != 2 {
		t.Errorf("expected 2 resolved, got %d", stats.Resolved)
	}
	if stats.Unmatched != 1 {
		t.Errorf("expected 1 unmatched, got %d", stats.Unmatched)
	}

	cancel()
}

func TestDroppedMappingsReflectsHub(t *testing.T) {
	ch := make(chan model.LogMapping, 100)
	agg := New(ch, func() int64 { return 7 })

	if got := agg.Snapshot().DroppedMappings; got != 7 {
		t.Errorf("expected dropped_mappings to reflect the hub's live count (7), got %d", got)
	}
}
