package stats

import (
	"context"

	"github.com/verte-zerg/lenuk/internal/model"
)

// ResultSource is the part of the store a report reads.
type ResultSource interface {
	ListResults(ctx context.Context, cfg model.StatsConfig) ([]model.Result, error)
	ListCharAggregatesForResults(ctx context.Context, resultIDs []string) ([]model.CharAggregate, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Results         []model.Result
	WindowResultIDs []string
	CharAggsAll     []model.CharAggregate
	CharAggsWindow  []model.CharAggregate
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, src ResultSource, cfg model.StatsConfig) (Report, error) {
	results, err := src.ListResults(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(results) > cfg.Last {
		results = results[len(results)-cfg.Last:]
	}

	allIDs := resultIDs(results)
	windowIDs := lastResultIDs(results, cfg.CurveWindow)
	charAggsAll, err := src.ListCharAggregatesForResults(ctx, allIDs)
	if err != nil {
		return Report{}, err
	}
	charAggsWindow, err := src.ListCharAggregatesForResults(ctx, windowIDs)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Results:         results,
		WindowResultIDs: windowIDs,
		CharAggsAll:     charAggsAll,
		CharAggsWindow:  charAggsWindow,
	}, nil
}

func resultIDs(results []model.Result) []string {
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.ID
	}
	return ids
}

func lastResultIDs(results []model.Result, window int) []string {
	if window <= 0 || len(results) <= window {
		return resultIDs(results)
	}
	return resultIDs(results[len(results)-window:])
}
