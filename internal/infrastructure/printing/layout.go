package printing

import (
	"fmt"
	"strings"

	"github.com/cotizador/backend/internal/domain/quotation"
)

// A4 portrait, in points
const (
	PageWidth  = 595.28
	PageHeight = 841.89
)

const (
	bandHeight      = 40.0
	borderInset     = 20.0
	borderLineWidth = 3.0
	watermarkWidth  = 620.0
	watermarkHeight = 420.0
	watermarkAlpha  = 0.1
	footerY         = 775.0

	// BreakThreshold is the lowest y content may reach before a new page
	BreakThreshold = 750.0
	// ContinuationTop is where content resumes on pages after the first
	ContinuationTop = 120.0
	// TableContinuationTop is where the repeated table header is drawn
	TableContinuationTop = 100.0

	clientBlockTop    = 175.0
	bodyX             = 50.0
	bodyWidth         = 500.0
	tableHeaderHeight = 22.0
	rowPadding        = 8.0
	rowTintAlpha      = 0.05
	headerTintAlpha   = 0.15
	totalsX           = 400.0
	totalsValueX      = 480.0
	totalsValueWidth  = 80.0
	totalsEstimate    = 50.0
	signatureEstimate = 190.0
)

// Table columns: description, quantity, unit price, line total
var (
	columnX      = [4]float64{50, 320, 390, 470}
	columnWidth  = [4]float64{270, 60, 70, 80}
	columnLabels = [4]string{"Descripción", "Cant.", "V. Unitario", "Total"}
)

// RGB is a color with 0-255 channels
type RGB struct{ R, G, B int }

var (
	colorDarkGray = RGB{85, 85, 85}
	colorBand     = RGB{0x7F, 0xBF, 0x60}
	colorAccent   = RGB{0x1B, 0x5E, 0x20}
)

// ElementKind selects how an element is drawn
type ElementKind int

const (
	KindText ElementKind = iota
	KindRect
	KindLine
	KindImage
)

// Tags label elements whose presence matters to callers
const (
	TagChrome               = "chrome"
	TagWatermark            = "watermark"
	TagLogo                 = "logo"
	TagSignature            = "signature"
	TagSignaturePlaceholder = "signature_placeholder"
	TagTableHeader          = "table_header"
	TagItemDescription      = "item_description"
	TagPageNumber           = "page_number"
	TagTotal                = "total"
)

// Asset names the image an element shows
type Asset string

const (
	AssetLogo      Asset = "logo"
	AssetSignature Asset = "signature"
)

// SignaturePlaceholder replaces a signature image that could not be loaded
const SignaturePlaceholder = "[Firma no disponible]"

// Element is one placement on a page. Text elements are positioned by the
// top of their line box. Lines run from (X, Y) to (X+W, Y+H).
type Element struct {
	Kind      ElementKind
	X, Y      float64
	W, H      float64
	Text      string
	Font      Font
	Color     RGB
	Alpha     float64 // 0 means opaque
	Fill      bool
	LineWidth float64
	Asset     Asset
	Tag       string
	Item      int // index of the item for item elements, -1 otherwise
}

// Page is an ordered list of placements
type Page struct {
	Number   int
	Elements []Element
}

// Plan is the complete placement of a document
type Plan struct {
	Pages []Page
}

// Find returns the elements carrying tag, in drawing order
func (p *Plan) Find(tag string) []Element {
	var out []Element
	for _, page := range p.Pages {
		for _, el := range page.Elements {
			if el.Tag == tag {
				out = append(out, el)
			}
		}
	}
	return out
}

// AssetSizes gives the pixel dimensions of the images that loaded.
// A zero size means the image is unavailable.
type AssetSizes struct {
	LogoWidth, LogoHeight           int
	SignatureWidth, SignatureHeight int
}

// HasLogo reports whether a logo can be drawn
func (a AssetSizes) HasLogo() bool { return a.LogoWidth > 0 && a.LogoHeight > 0 }

// HasSignature reports whether a signature can be drawn
func (a AssetSizes) HasSignature() bool { return a.SignatureWidth > 0 && a.SignatureHeight > 0 }

// LayoutOptions carries the configurable labels of the document
type LayoutOptions struct {
	TaxLabel string
}

// PageLayoutState is the cursor threaded through every layout step
type PageLayoutState struct {
	Page  int // 0-based index into the plan
	Y     float64
	Style Font
}

type planner struct {
	view    *quotation.View
	assets  AssetSizes
	measure TextMeasurer
	opts    LayoutOptions
	plan    Plan
}

// BuildPlan computes every placement of the document. It has no side
// effects, so identical inputs give identical plans.
func BuildPlan(view *quotation.View, assets AssetSizes, m TextMeasurer, opts LayoutOptions) *Plan {
	if opts.TaxLabel == "" {
		opts.TaxLabel = "IVA (19%):"
	}
	p := &planner{view: view, assets: assets, measure: m, opts: opts}

	st := p.newPage()
	st = p.header(st)
	st = p.clientBlock(st)
	st = p.table(st)
	st = p.totals(st)
	st = p.notes(st)
	p.signature(st)
	p.finalize()

	return &p.plan
}

func (p *planner) add(st PageLayoutState, el Element) {
	if el.Kind == KindText && el.Font.Size == 0 {
		el.Font = st.Style
	}
	p.plan.Pages[st.Page].Elements = append(p.plan.Pages[st.Page].Elements, el)
}

func (p *planner) text(st PageLayoutState, x, y float64, s string, font Font) {
	p.add(st, Element{Kind: KindText, X: x, Y: y, Text: s, Font: font, Item: -1})
}

func (p *planner) textRight(st PageLayoutState, right, y float64, s string, font Font) {
	p.text(st, right-p.measure.Width(font, s), y, s, font)
}

// newPage appends a page and draws its chrome
func (p *planner) newPage() PageLayoutState {
	p.plan.Pages = append(p.plan.Pages, Page{Number: len(p.plan.Pages) + 1})
	st := PageLayoutState{Page: len(p.plan.Pages) - 1, Y: ContinuationTop, Style: regular(10)}
	p.chrome(st)
	return st
}

// chrome draws the bands, watermark, border and footer of a page. The page
// count in the footer is filled in by finalize.
func (p *planner) chrome(st PageLayoutState) {
	p.add(st, Element{Kind: KindRect, X: 0, Y: 0, W: PageWidth, H: bandHeight,
		Fill: true, Color: colorBand, Alpha: 0.5, Tag: TagChrome, Item: -1})
	p.add(st, Element{Kind: KindRect, X: 0, Y: PageHeight - bandHeight, W: PageWidth, H: bandHeight,
		Fill: true, Color: colorBand, Alpha: 0.5, Tag: TagChrome, Item: -1})

	if p.assets.HasLogo() {
		p.add(st, Element{Kind: KindImage, Asset: AssetLogo,
			X: PageWidth - watermarkWidth, Y: (PageHeight - watermarkHeight) / 2.5,
			W: watermarkWidth, H: watermarkHeight, Alpha: watermarkAlpha, Tag: TagWatermark, Item: -1})
	}

	p.add(st, Element{Kind: KindRect, X: borderInset, Y: borderInset,
		W: PageWidth - 2*borderInset, H: PageHeight - 2*borderInset,
		Color: colorAccent, LineWidth: borderLineWidth, Tag: TagChrome, Item: -1})

	footer := regular(8)
	if email := strings.TrimSpace(p.view.Company.Email); email != "" {
		p.add(st, Element{Kind: KindText, X: 40, Y: footerY, Text: email, Font: footer, Color: colorDarkGray, Tag: TagChrome, Item: -1})
	}
	p.add(st, Element{Kind: KindText, X: PageWidth - 40, Y: footerY, Font: footer, Color: colorDarkGray, Tag: TagPageNumber, Item: -1})
}

// finalize writes "Página n de N" into every footer, right aligned
func (p *planner) finalize() {
	total := len(p.plan.Pages)
	for i := range p.plan.Pages {
		els := p.plan.Pages[i].Elements
		for j := range els {
			if els[j].Tag != TagPageNumber {
				continue
			}
			els[j].Text = fmt.Sprintf("Página %d de %d", p.plan.Pages[i].Number, total)
			els[j].X = PageWidth - 40 - p.measure.Width(els[j].Font, els[j].Text)
		}
	}
}

// breakIfNeeded starts a new page when need points do not fit below st.Y
func (p *planner) breakIfNeeded(st PageLayoutState, need float64) PageLayoutState {
	if st.Y+need <= BreakThreshold {
		return st
	}
	return p.newPage()
}

func (p *planner) header(st PageLayoutState) PageLayoutState {
	title := bold(18)
	p.add(st, Element{Kind: KindText, X: 45, Y: 45, Text: "COTIZACION " + p.view.QuotationNumber, Font: title, Color: colorAccent, Item: -1})

	dateFont := regular(10)
	p.textRight(st, PageWidth-40, 50, FormatDate(p.view.IssuedAt), dateFont)

	nameFont := bold(18)
	y := 100.0
	nameLines := Wrap(p.measure, nameFont, p.view.Company.Name, PageWidth-40-150)
	for _, line := range nameLines {
		p.text(st, 40, y, line, nameFont)
		y += nameFont.LineHeight()
	}

	if p.assets.HasLogo() {
		x, yy, w, h := fit(PageWidth-110, 80, 60, 50, p.assets.LogoWidth, p.assets.LogoHeight)
		p.add(st, Element{Kind: KindImage, Asset: AssetLogo, X: x, Y: yy, W: w, H: h, Tag: TagLogo, Item: -1})
	}

	if nit := strings.TrimSpace(p.view.Company.TaxID); nit != "" {
		y += 10
		p.text(st, 40, y, "NIT: "+nit, regular(10))
		y += regular(10).LineHeight()
	}

	st.Y = max(clientBlockTop, y+15)
	return st
}

func (p *planner) clientBlock(st PageLayoutState) PageLayoutState {
	label := regular(11)
	strong := bold(11)

	p.text(st, bodyX, st.Y, "SEÑORES:", label)
	st.Y += 15
	for _, line := range Wrap(p.measure, strong, Upper(p.view.Client.Name), bodyWidth) {
		p.text(st, bodyX, st.Y, line, strong)
		st.Y += strong.LineHeight()
	}
	st.Y += 25 - strong.LineHeight()

	position := strings.TrimSpace(p.view.Client.ContactPosition)
	if position == "" {
		position = "ESTIMADO/A:"
	} else {
		position = Upper(position)
	}
	p.text(st, bodyX, st.Y, position, label)
	st.Y += 15

	if contact := strings.TrimSpace(p.view.Client.ContactName); contact != "" {
		p.text(st, bodyX, st.Y, Upper(contact), strong)
	}
	st.Y += 25

	p.text(st, bodyX, st.Y, "Cordial saludo.", label)
	st.Y += 25

	if msg := strings.TrimSpace(p.view.CustomMessage); msg != "" {
		st.Y += 10
		st = p.paragraph(st, msg, regular(10), bodyX, bodyWidth)
		st.Y += 20
	}
	return st
}

// paragraph places wrapped text line by line, breaking pages as needed
func (p *planner) paragraph(st PageLayoutState, text string, font Font, x, width float64) PageLayoutState {
	st.Style = font
	for _, line := range Wrap(p.measure, font, text, width) {
		st = p.breakIfNeeded(st, font.LineHeight())
		st.Style = font
		p.text(st, x, st.Y, line, font)
		st.Y += font.LineHeight()
	}
	return st
}

func (p *planner) tableHeader(st PageLayoutState) PageLayoutState {
	left := columnX[0]
	width := columnX[3] + columnWidth[3] - left

	p.add(st, Element{Kind: KindRect, X: left, Y: st.Y, W: width, H: tableHeaderHeight,
		Fill: true, Color: colorAccent, Alpha: headerTintAlpha, Tag: TagTableHeader, Item: -1})
	p.add(st, Element{Kind: KindRect, X: left, Y: st.Y, W: width, H: tableHeaderHeight,
		Color: colorAccent, LineWidth: 0.6, Tag: TagTableHeader, Item: -1})

	font := bold(10)
	for i, label := range columnLabels {
		w := p.measure.Width(font, label)
		x := columnX[i] + 5
		if i > 0 {
			x = columnX[i] + (columnWidth[i]-w)/2
		}
		p.add(st, Element{Kind: KindText, X: x, Y: st.Y + 6, Text: label, Font: font, Color: colorAccent, Tag: TagTableHeader, Item: -1})
	}
	st.Y += tableHeaderHeight
	return st
}

// rowMetrics holds the wrapped text of one item, or of the part of it that
// lands on one page
type rowMetrics struct {
	desc      []string
	long      []string
	descH     float64
	longH     float64
	height    float64
	continued bool // carries long description lines over from the previous page
}

// rowTop is where the first row of a continuation page starts
const rowTop = TableContinuationTop + tableHeaderHeight

var (
	descFont = bold(13)
	longFont = regular(9)
	cellFont = regular(10)
)

func (p *planner) measureRow(it quotation.Item) rowMetrics {
	var r rowMetrics
	r.desc = Wrap(p.measure, descFont, Upper(it.ShortDescription), columnWidth[0]-5)
	r.long = Wrap(p.measure, longFont, it.LongDescription, columnWidth[0]-20)
	r.descH = float64(len(r.desc)) * descFont.LineHeight()
	r.longH = float64(len(r.long)) * longFont.LineHeight()
	r.height = r.descH + r.longH + rowPadding
	return r
}

// split keeps the long description lines that fit in room and moves the rest
// to a continued row. ok is false when not even one long line fits.
func (r rowMetrics) split(room float64) (head, rest rowMetrics, ok bool) {
	n := int((room - r.descH - rowPadding) / longFont.LineHeight())
	if n < 1 || n >= len(r.long) {
		return r, rowMetrics{}, false
	}
	head = r
	head.long = r.long[:n]
	head.longH = float64(n) * longFont.LineHeight()
	head.height = head.descH + head.longH + rowPadding

	rest = rowMetrics{long: r.long[n:], continued: true}
	rest.longH = float64(len(rest.long)) * longFont.LineHeight()
	rest.height = rest.longH + rowPadding
	return head, rest, true
}

func (p *planner) table(st PageLayoutState) PageLayoutState {
	st = p.breakIfNeeded(st, tableHeaderHeight+descFont.LineHeight()+rowPadding)
	if st.Y == ContinuationTop && st.Page > 0 {
		st.Y = TableContinuationTop
	}
	st = p.tableHeader(st)

	for i, it := range p.view.Items {
		r := p.measureRow(it)
		if st.Y+r.height > BreakThreshold && st.Y > rowTop {
			st = p.continueTable()
		}
		// A row taller than a whole page is cut between long description
		// lines, each part on its own page.
		for st.Y+r.height > BreakThreshold {
			head, rest, ok := r.split(BreakThreshold - st.Y)
			if !ok {
				break
			}
			p.row(st, i, it, head)
			st = p.continueTable()
			r = rest
		}
		p.row(st, i, it, r)
		st.Y += r.height
	}
	return st
}

// continueTable starts a page and repeats the table header on it
func (p *planner) continueTable() PageLayoutState {
	st := p.newPage()
	st.Y = TableContinuationTop
	return p.tableHeader(st)
}

func (p *planner) row(st PageLayoutState, index int, it quotation.Item, r rowMetrics) {
	left := columnX[0]
	width := columnX[3] + columnWidth[3] - left

	if index%2 == 0 {
		p.add(st, Element{Kind: KindRect, X: left, Y: st.Y, W: width, H: r.height,
			Fill: true, Color: colorAccent, Alpha: rowTintAlpha, Item: index})
	}
	p.add(st, Element{Kind: KindRect, X: left, Y: st.Y, W: width, H: r.height,
		Color: colorAccent, LineWidth: 0.4, Item: index})
	for _, x := range columnX[1:] {
		p.add(st, Element{Kind: KindLine, X: x, Y: st.Y, H: r.height,
			Color: colorAccent, LineWidth: 0.4, Item: index})
	}

	y := st.Y + 3
	for _, line := range r.desc {
		p.add(st, Element{Kind: KindText, X: left + 5, Y: y, Text: line, Font: descFont, Tag: TagItemDescription, Item: index})
		y += descFont.LineHeight()
	}
	y = st.Y + r.descH + 5
	for _, line := range r.long {
		p.add(st, Element{Kind: KindText, X: left + 15, Y: y, Text: line, Font: longFont, Color: colorDarkGray, Item: index})
		y += longFont.LineHeight()
	}

	if r.continued {
		return
	}
	cellY := st.Y + 5
	qty := FormatQuantity(it.Quantity)
	p.add(st, Element{Kind: KindText, X: columnX[1] + (columnWidth[1]-p.measure.Width(cellFont, qty))/2, Y: cellY,
		Text: qty, Font: cellFont, Item: index})
	unit := FormatCurrency(it.UnitPrice)
	p.add(st, Element{Kind: KindText, X: columnX[2] + columnWidth[2] - 5 - p.measure.Width(cellFont, unit), Y: cellY,
		Text: unit, Font: cellFont, Item: index})
	total := FormatCurrency(it.LineTotal)
	p.add(st, Element{Kind: KindText, X: columnX[3] + columnWidth[3] - 5 - p.measure.Width(cellFont, total), Y: cellY,
		Text: total, Font: cellFont, Item: index})
}

func (p *planner) totals(st PageLayoutState) PageLayoutState {
	st.Y += 15
	st = p.breakIfNeeded(st, totalsEstimate)

	lines := []struct {
		label string
		value string
		font  Font
		tag   string
	}{
		{"Subtotal:", FormatCurrency(p.view.Subtotal), regular(10), ""},
		{p.opts.TaxLabel, FormatCurrency(p.view.TaxAmount), regular(10), ""},
		{"TOTAL:", FormatCurrency(p.view.Total), bold(11), TagTotal},
	}
	for _, l := range lines {
		p.add(st, Element{Kind: KindText, X: totalsX, Y: st.Y, Text: l.label, Font: l.font, Tag: l.tag, Item: -1})
		p.add(st, Element{Kind: KindText, X: totalsValueX + totalsValueWidth - p.measure.Width(l.font, l.value), Y: st.Y,
			Text: l.value, Font: l.font, Tag: l.tag, Item: -1})
		st.Y += 15
	}
	st.Y += 25
	return st
}

func (p *planner) notes(st PageLayoutState) PageLayoutState {
	notes := strings.TrimSpace(p.view.Notes)
	if notes == "" {
		return st
	}
	heading := Font{Family: FontHelvetica, Style: "BU", Size: 11}
	st = p.breakIfNeeded(st, heading.LineHeight()+10+regular(10).LineHeight())
	p.text(st, bodyX, st.Y, "Observaciones:", heading)
	st.Y += heading.LineHeight() + 10
	st = p.paragraph(st, notes, regular(10), bodyX, bodyWidth)
	st.Y += 30
	return st
}

func (p *planner) signature(st PageLayoutState) PageLayoutState {
	st.Y += 15
	st = p.breakIfNeeded(st, signatureEstimate)

	label := regular(10)
	p.text(st, bodyX, st.Y, "Cordialmente,", label)
	st.Y += 15

	if p.assets.HasSignature() {
		x, y, w, h := fit(bodyX, st.Y, 100, 50, p.assets.SignatureWidth, p.assets.SignatureHeight)
		p.add(st, Element{Kind: KindImage, Asset: AssetSignature, X: x, Y: y, W: w, H: h, Tag: TagSignature, Item: -1})
		st.Y += 60
	} else if strings.TrimSpace(p.view.Company.Representative.SignatureURL) != "" {
		p.add(st, Element{Kind: KindText, X: bodyX, Y: st.Y, Text: SignaturePlaceholder, Font: label,
			Color: colorDarkGray, Tag: TagSignaturePlaceholder, Item: -1})
		st.Y += 15
	}

	rep := p.view.Company.Representative
	p.text(st, bodyX, st.Y, Upper(rep.Name), bold(13))
	if rep.Position != "" {
		p.text(st, bodyX, st.Y+15, Upper(rep.Position), label)
	}
	if rep.Email != "" {
		p.text(st, bodyX, st.Y+30, rep.Email, label)
	}
	if rep.Phone != "" {
		p.text(st, bodyX, st.Y+45, "Contacto: "+rep.Phone, label)
	}
	if p.assets.HasLogo() {
		x, y, w, h := fit(bodyX, st.Y+55, 60, 60, p.assets.LogoWidth, p.assets.LogoHeight)
		p.add(st, Element{Kind: KindImage, Asset: AssetLogo, X: x, Y: y, W: w, H: h, Tag: TagLogo, Item: -1})
	}
	st.Y += 115
	return st
}

// fit scales an image of pw x ph pixels into the box, keeping its aspect
// ratio and its top-left corner
func fit(x, y, w, h float64, pw, ph int) (float64, float64, float64, float64) {
	scale := min(w/float64(pw), h/float64(ph))
	return x, y, float64(pw) * scale, float64(ph) * scale
}
