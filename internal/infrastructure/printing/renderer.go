package printing

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/cotizador/backend/internal/domain/quotation"
	"github.com/cotizador/backend/internal/infrastructure/telemetry"
	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
)

// ascent places the baseline of core-font text below the top of its line box
const ascent = 0.718

// RenderResult describes a document written to a sink
type RenderResult struct {
	Pages    int
	Bytes    int64
	Degraded bool
}

// Document is a fully rendered quotation held in memory. Nothing has been
// written to the client yet, so a failure up to this point can still be
// reported as a structured error.
type Document struct {
	data     []byte
	Pages    int
	Degraded bool
	Filename string
}

// Bytes returns the encoded PDF
func (d *Document) Bytes() []byte {
	return d.data
}

// Len is the encoded size in bytes
func (d *Document) Len() int {
	return len(d.data)
}

// WriteTo writes the encoded PDF to w
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(d.data)
	return int64(n), err
}

// Renderer lays out and draws quotation documents
type Renderer struct {
	fetcher AssetFetcher
	layout  LayoutOptions
	metrics *telemetry.RenderMetrics
	logger  *zap.Logger
}

// RendererOption is a functional option for configuring Renderer
type RendererOption func(*Renderer)

// WithTaxLabel sets the label of the tax line, e.g. "IVA (19%):"
func WithTaxLabel(label string) RendererOption {
	return func(r *Renderer) {
		r.layout.TaxLabel = label
	}
}

// WithRenderMetrics records render outcomes
func WithRenderMetrics(m *telemetry.RenderMetrics) RendererOption {
	return func(r *Renderer) {
		r.metrics = m
	}
}

// WithRenderLogger sets the renderer logger
func WithRenderLogger(logger *zap.Logger) RendererOption {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// NewRenderer creates a renderer. A nil fetcher renders without images.
func NewRenderer(fetcher AssetFetcher, opts ...RendererOption) *Renderer {
	r := &Renderer{
		fetcher: fetcher,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r
}

// Build renders view into memory. The returned error is always a
// *RenderError.
func (r *Renderer) Build(ctx context.Context, view *quotation.View) (*Document, error) {
	ctx, span := telemetry.StartSpan(ctx, "printing.Build")
	defer span.End()
	start := time.Now()

	doc, err := r.build(ctx, view)
	if err != nil {
		telemetry.RecordError(span, err)
		r.metrics.RecordRender(ctx, telemetry.OutcomeFailed, time.Since(start), 0)
		return nil, err
	}

	outcome := telemetry.OutcomeSuccess
	if doc.Degraded {
		outcome = telemetry.OutcomeDegraded
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrQuotationNumber, view.QuotationNumber,
		telemetry.SpanAttrItemCount, len(view.Items),
		telemetry.SpanAttrPageCount, doc.Pages,
	)
	r.metrics.RecordRender(ctx, outcome, time.Since(start), doc.Pages)
	return doc, nil
}

func (r *Renderer) build(ctx context.Context, view *quotation.View) (*Document, error) {
	if view == nil {
		return nil, NewRenderError(ErrCodeInvalidView, "quotation view is required", nil)
	}
	if err := view.Validate(); err != nil {
		return nil, NewRenderError(ErrCodeInvalidView, "quotation cannot be rendered", err)
	}

	var assets Assets
	if r.fetcher != nil {
		assets = r.fetcher.FetchAssets(ctx, view)
	}
	if err := ctx.Err(); err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "render cancelled", err)
	}

	pdf := newDocumentPDF(view)
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	assets = r.registerAssets(pdf, assets)

	plan := BuildPlan(view, assets.Sizes(), NewFontMeasurer(), r.layout)
	drawPlan(pdf, plan, translate)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to encode document", err)
	}
	if pdf.Err() {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to draw document", pdf.Error())
	}

	if assets.Degraded {
		r.logger.Info("Quotation rendered with missing images",
			zap.String("code", ErrCodeDegradedAsset),
			zap.String("quotation_number", view.QuotationNumber),
		)
	}
	return &Document{
		data:     buf.Bytes(),
		Pages:    len(plan.Pages),
		Degraded: assets.Degraded,
		Filename: view.Filename(),
	}, nil
}

// Render builds the document and writes it to w. Once the first byte is
// out, a failing sink yields a truncated stream and a RENDER_FAILED error
// the caller can only log.
func (r *Renderer) Render(ctx context.Context, view *quotation.View, w io.Writer) (RenderResult, error) {
	doc, err := r.Build(ctx, view)
	if err != nil {
		return RenderResult{}, err
	}
	n, err := doc.WriteTo(w)
	result := RenderResult{Pages: doc.Pages, Bytes: n, Degraded: doc.Degraded}
	if err != nil {
		return result, NewRenderError(ErrCodeRenderFailed, "failed to write document", err)
	}
	return result, nil
}

// newDocumentPDF configures a document whose bytes depend only on view
func newDocumentPDF(view *quotation.View) *fpdf.Fpdf {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(true)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(view.IssuedAt)
	pdf.SetModificationDate(view.IssuedAt)
	pdf.SetTitle("Cotización "+view.QuotationNumber, true)
	pdf.SetAuthor(view.Company.Name, true)
	pdf.SetCreator("cotizador", false)
	return pdf
}

// registerAssets embeds the fetched images in a fixed order. An image the
// writer rejects is dropped and the document is marked degraded.
func (r *Renderer) registerAssets(pdf *fpdf.Fpdf, assets Assets) Assets {
	register := func(name Asset, img *Image) *Image {
		if img == nil {
			return nil
		}
		pdf.RegisterImageOptionsReader(string(name), fpdf.ImageOptions{ImageType: img.Type}, bytes.NewReader(img.Data))
		if pdf.Err() {
			r.logger.Warn("Image asset rejected by PDF writer",
				zap.String("code", ErrCodeDegradedAsset),
				zap.String("asset", string(name)),
				zap.Error(pdf.Error()),
			)
			pdf.ClearError()
			assets.Degraded = true
			return nil
		}
		return img
	}
	assets.Logo = register(AssetLogo, assets.Logo)
	assets.Signature = register(AssetSignature, assets.Signature)
	return assets
}

// drawPlan executes placements page by page
func drawPlan(pdf *fpdf.Fpdf, plan *Plan, translate func(string) string) {
	for _, page := range plan.Pages {
		pdf.AddPage()
		for _, el := range page.Elements {
			drawElement(pdf, el, translate)
		}
	}
}

func drawElement(pdf *fpdf.Fpdf, el Element, translate func(string) string) {
	if el.Alpha > 0 && el.Alpha < 1 {
		pdf.SetAlpha(el.Alpha, "Normal")
		defer pdf.SetAlpha(1, "Normal")
	}

	switch el.Kind {
	case KindText:
		pdf.SetFont(el.Font.Family, el.Font.Style, el.Font.Size)
		pdf.SetTextColor(el.Color.R, el.Color.G, el.Color.B)
		pdf.Text(el.X, el.Y+el.Font.Size*ascent, translate(el.Text))
	case KindRect:
		if el.Fill {
			pdf.SetFillColor(el.Color.R, el.Color.G, el.Color.B)
			pdf.Rect(el.X, el.Y, el.W, el.H, "F")
			return
		}
		pdf.SetDrawColor(el.Color.R, el.Color.G, el.Color.B)
		pdf.SetLineWidth(el.LineWidth)
		pdf.Rect(el.X, el.Y, el.W, el.H, "D")
	case KindLine:
		pdf.SetDrawColor(el.Color.R, el.Color.G, el.Color.B)
		pdf.SetLineWidth(el.LineWidth)
		pdf.Line(el.X, el.Y, el.X+el.W, el.Y+el.H)
	case KindImage:
		info := pdf.GetImageInfo(string(el.Asset))
		if info == nil {
			return
		}
		pdf.ImageOptions(string(el.Asset), el.X, el.Y, el.W, el.H, false, fpdf.ImageOptions{}, 0, "")
	}
}
