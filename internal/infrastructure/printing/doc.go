// Package printing renders quotations as paginated A4 PDF documents.
//
// Rendering happens in two passes. BuildPlan is a pure function of the
// quotation view, the sizes of the images that loaded and a TextMeasurer;
// it decides every placement, including page breaks, and threads a
// PageLayoutState through each step. The drawing pass then executes the
// plan with go-pdf/fpdf. Page counts and placements can therefore be tested
// without parsing PDF bytes.
//
// A document is built in memory before any byte reaches the caller's writer.
// Output is not streamed page by page, so every drawing error surfaces from
// Build while a clean error response can still be sent.
//
// Images are fetched by ImageFetcher, which never fails a render: an
// unavailable logo drops the logo and the watermark, and a configured
// signature that cannot be loaded prints a placeholder.
//
// Example usage:
//
//	fetcher := printing.NewImageFetcher(printing.WithFetchTimeout(5 * time.Second))
//	renderer := printing.NewRenderer(fetcher, printing.WithTaxLabel("IVA (19%):"))
//
//	doc, err := renderer.Build(ctx, &view)
//	if err != nil {
//	    return err // *printing.RenderError, nothing written yet
//	}
//	_, err = doc.WriteTo(w)
package printing
