package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Render outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeDegraded = "degraded"
	OutcomeFailed   = "failed"
)

// Image fetch outcomes.
const (
	FetchOK       = "ok"
	FetchMissing  = "missing"
	FetchFailed   = "failed"
	FetchCacheHit = "cache_hit"
)

// RenderMetrics records document rendering and asset fetch statistics.
// A nil *RenderMetrics is valid and records nothing.
type RenderMetrics struct {
	renders    *Counter
	duration   *Histogram
	pages      *Histogram
	imageFetch *Counter
}

// NewRenderMetrics registers the rendering instruments on meter.
func NewRenderMetrics(meter metric.Meter) (*RenderMetrics, error) {
	renders, err := NewCounter(meter,
		"quotation_render_total",
		"Quotation documents rendered, by outcome",
		"{render}",
	)
	if err != nil {
		return nil, err
	}

	duration, err := NewHistogram(meter, HistogramOpts{
		Name:        "quotation_render_duration_seconds",
		Description: "Time spent producing a quotation document",
		Unit:        "s",
		Boundaries:  RenderDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	pages, err := NewHistogram(meter, HistogramOpts{
		Name:        "quotation_render_pages",
		Description: "Pages per rendered quotation document",
		Unit:        "{page}",
		Boundaries:  PageCountBuckets,
	})
	if err != nil {
		return nil, err
	}

	imageFetch, err := NewCounter(meter,
		"quotation_image_fetch_total",
		"Remote image fetches for quotation documents, by asset and outcome",
		"{fetch}",
	)
	if err != nil {
		return nil, err
	}

	return &RenderMetrics{
		renders:    renders,
		duration:   duration,
		pages:      pages,
		imageFetch: imageFetch,
	}, nil
}

// RecordRender records one finished render. pages is ignored for failures.
func (m *RenderMetrics) RecordRender(ctx context.Context, outcome string, elapsed time.Duration, pages int) {
	if m == nil {
		return
	}
	m.renders.Inc(ctx, AttrOutcome.String(outcome))
	m.duration.RecordDuration(ctx, elapsed, AttrOutcome.String(outcome))
	if outcome != OutcomeFailed && pages > 0 {
		m.pages.Record(ctx, float64(pages))
	}
}

// RecordImageFetch records the result of resolving one image asset.
func (m *RenderMetrics) RecordImageFetch(ctx context.Context, asset, outcome string) {
	if m == nil {
		return
	}
	m.imageFetch.Inc(ctx, AttrAsset.String(asset), AttrOutcome.String(outcome))
}
