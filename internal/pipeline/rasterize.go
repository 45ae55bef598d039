package pipeline

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/gen2brain/go-fitz"
)

// renderDPI renders pages at twice the PDF's native 72 DPI. Utility invoices
// are dense with small print and OCR accuracy drops noticeably below this.
const renderDPI = 144

// PageImage is a single rasterized page. Index is 1-based: the first page of
// the document is page 1.
type PageImage struct {
	Index int
	PNG   []byte
}

// Rasterizer renders a PDF document into per-page PNG images.
type Rasterizer interface {
	Rasterize(pdfData []byte) ([]PageImage, error)
}

// FitzRasterizer renders PDFs with MuPDF.
type FitzRasterizer struct{}

func NewFitzRasterizer() *FitzRasterizer {
	return &FitzRasterizer{}
}

// Rasterize renders every page of the PDF as a PNG image.
func (r *FitzRasterizer) Rasterize(pdfData []byte) ([]PageImage, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	pages := make([]PageImage, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		img, err := doc.ImageDPI(i, renderDPI)
		if err != nil {
			return nil, fmt.Errorf("rendering page %d: %w", i+1, err)
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encoding page %d: %w", i+1, err)
		}

		pages = append(pages, PageImage{Index: i + 1, PNG: buf.Bytes()})
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("document has no pages")
	}

	return pages, nil
}
