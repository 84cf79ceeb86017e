package document

import (
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	fontFamily = "Helvetica"
	lineFactor = 1.2
)

// PDFRenderer rasterizes blocks into a single-flow PDF using the core
// Helvetica fonts with cp1252 encoding.
type PDFRenderer struct{}

// NewPDFRenderer returns a PDF renderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render writes the document to w. Output is deterministic for identical
// blocks and meta.
func (r *PDFRenderer) Render(w io.Writer, meta Meta, blocks []Block) error {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(PageMargin, PageMargin, PageMargin)
	pdf.SetAutoPageBreak(true, PageMargin)
	pdf.SetCompression(true)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(meta.GeneratedAt)
	pdf.SetModificationDate(meta.GeneratedAt)
	pdf.SetTitle(meta.Title, true)
	pdf.SetCreator(meta.Creator, true)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	size := styleBody.Size
	for _, b := range blocks {
		if b.Offset != 0 {
			pdf.SetY(pdf.GetY() + b.Offset)
		}
		x, width := span(b)

		switch b.Kind {
		case KindText:
			size = b.Style.Size
			pdf.SetFont(fontFamily, fontStyle(b.Style), size)
			pdf.SetTextColor(b.Style.Color.R, b.Style.Color.G, b.Style.Color.B)
			pdf.SetX(x)
			pdf.MultiCell(width, size*lineFactor, tr(b.Text), "", string(b.Align), false)
		case KindRule:
			y := pdf.GetY()
			pdf.SetDrawColor(b.Fill.R, b.Fill.G, b.Fill.B)
			pdf.SetLineWidth(b.Height)
			pdf.Line(x, y, x+width, y)
		case KindShade:
			pdf.SetFillColor(b.Fill.R, b.Fill.G, b.Fill.B)
			pdf.Rect(x, pdf.GetY(), width, b.Height, "F")
		case KindSpace:
			pdf.Ln(b.Lines * size * lineFactor)
		}

		if pdf.Err() {
			return pdf.Error()
		}
	}

	return pdf.Output(w)
}

func span(b Block) (x, width float64) {
	x = b.X
	if x == 0 {
		x = PageMargin
	}
	width = b.Width
	if width == 0 {
		width = PageWidth - PageMargin - x
	}
	return x, width
}

func fontStyle(s Style) string {
	style := ""
	if s.Bold {
		style += "B"
	}
	if s.Underline {
		style += "U"
	}
	return style
}
