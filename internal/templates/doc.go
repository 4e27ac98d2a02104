package templates

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/dayoon-dev/homeroom-api/internal/models"
	appErrors "github.com/dayoon-dev/homeroom-api/pkg/errors"
)

// Doc wraps a gofpdf page with the profile's margins, calibration offset
// and font scale already applied, so renderers work in profile-corrected
// millimetre coordinates.
type Doc struct {
	pdf       *gofpdf.Fpdf
	font      string
	fontScale float64
	offset    models.OffsetMm
	pageW     float64
	pageH     float64
	margin    models.MarginMm
}

func newDoc(t Template, profile models.PrintProfile, fontPath string) *Doc {
	orient := "P"
	if profile.Orientation == models.OrientationLandscape {
		orient = "L"
	}
	paper := profile.Paper
	if paper == "" {
		paper = models.PaperA4
	}

	pdf := gofpdf.New(orient, "mm", paper, "")
	pdf.SetAutoPageBreak(false, 0)

	font := "Arial"
	if fontPath != "" {
		// Core fonts have no CJK glyphs; a configured TTF covers them.
		pdf.AddUTF8Font("body", "", fontPath)
		font = "body"
	}

	margin := profile.MarginMm
	if margin == (models.MarginMm{}) {
		margin = t.DefaultMarginMm
	}

	scale := profile.FontScale
	if scale <= 0 {
		scale = 1.0
	}

	w, h := pdf.GetPageSize()
	doc := &Doc{
		pdf:       pdf,
		font:      font,
		fontScale: scale,
		offset:    profile.OffsetMm,
		pageW:     w,
		pageH:     h,
		margin:    margin,
	}
	doc.AddPage()
	return doc
}

// AddPage starts a new page with the calibration offset applied to all
// subsequent drawing.
func (d *Doc) AddPage() {
	d.pdf.AddPage()
}

// ContentRect returns the printable area inside the margins: left, top,
// width and height in millimetres.
func (d *Doc) ContentRect() (x, y, w, h float64) {
	x = d.margin.Left
	y = d.margin.Top
	w = d.pageW - d.margin.Left - d.margin.Right
	h = d.pageH - d.margin.Top - d.margin.Bottom
	return x, y, w, h
}

// SetFont selects the document font at size scaled by the profile.
func (d *Doc) SetFont(style string, size float64) {
	d.pdf.SetFont(d.font, style, size*d.fontScale)
}

// Text draws s with its baseline at (x, y).
func (d *Doc) Text(x, y float64, s string) {
	d.pdf.Text(x+d.offset.X, y+d.offset.Y, s)
}

// CellBox draws a bordered cell with centered-left text.
func (d *Doc) CellBox(x, y, w, h float64, s string, align string) {
	d.pdf.SetXY(x+d.offset.X, y+d.offset.Y)
	d.pdf.CellFormat(w, h, s, "1", 0, align, false, 0, "")
}

// Line draws a straight line.
func (d *Doc) Line(x1, y1, x2, y2 float64) {
	d.pdf.Line(x1+d.offset.X, y1+d.offset.Y, x2+d.offset.X, y2+d.offset.Y)
}

// SetLineWidth sets the stroke width in millimetres.
func (d *Doc) SetLineWidth(w float64) {
	d.pdf.SetLineWidth(w)
}

// Output closes the document and returns the PDF bytes.
func (d *Doc) Output() ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := d.pdf.Output(buf); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "render pdf")
	}
	return buf.Bytes(), nil
}

func errUnknownTemplate(id string) error {
	return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown template: %s", id))
}
