package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/daviniapd/Voltix-back/internal/extract"
)

// maxRecognizedPages caps OCR at the first two pages. Spanish utility
// invoices put every extractable field on pages one and two; later pages are
// regulatory boilerplate.
const maxRecognizedPages = 2

// SourceDocument is an uploaded invoice awaiting processing.
type SourceDocument struct {
	Name        string
	ContentType string
	Data        []byte
}

// Preview is the rasterized first page, kept for display alongside the
// extracted record.
type Preview struct {
	PNG      []byte
	MIMEType string
}

// Outcome is the result of a successful pipeline run.
type Outcome struct {
	Vendor       extract.Vendor
	CombinedText string
	Record       *extract.Record
	Preview      Preview
}

// Pipeline runs an invoice through rasterization, preprocessing, OCR,
// vendor classification, and field extraction.
type Pipeline struct {
	rasterizer Rasterizer
	recognizer Recognizer
	ocrTimeout time.Duration
}

// New creates a Pipeline with the default MuPDF rasterizer and a Tesseract
// recognizer for the given language.
func New(language string, ocrTimeout time.Duration) *Pipeline {
	return &Pipeline{
		rasterizer: NewFitzRasterizer(),
		recognizer: NewTesseractRecognizer(language),
		ocrTimeout: ocrTimeout,
	}
}

// NewWithDeps creates a Pipeline with custom dependencies for testing.
func NewWithDeps(rasterizer Rasterizer, recognizer Recognizer, ocrTimeout time.Duration) *Pipeline {
	return &Pipeline{
		rasterizer: rasterizer,
		recognizer: recognizer,
		ocrTimeout: ocrTimeout,
	}
}

// Run processes a document end to end. Rasterization, preprocessing, and OCR
// failures come back as *StageError; an unrecognized vendor comes back as
// ErrVendorNotRecognized. Field extraction itself never fails: fields that
// cannot be found are left null in the record.
func (p *Pipeline) Run(ctx context.Context, doc SourceDocument) (*Outcome, error) {
	pages, err := p.rasterize(doc)
	if err != nil {
		return nil, &StageError{Stage: StageRasterize, Err: err}
	}

	preview := Preview{PNG: pages[0].PNG, MIMEType: "image/png"}

	if len(pages) > maxRecognizedPages {
		pages = pages[:maxRecognizedPages]
	}

	texts := make([]string, len(pages))
	errs := make([]error, len(pages))

	// Pages are independent, so OCR runs concurrently. Results keep page
	// order regardless of which finishes first.
	var wg sync.WaitGroup
	for i, page := range pages {
		wg.Add(1)
		go func(i int, page PageImage) {
			defer wg.Done()
			texts[i], errs[i] = p.recognizePage(ctx, page)
		}(i, page)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			slog.Error("page recognition failed", "document", doc.Name, "page", pages[i].Index, "error", err)
			return nil, err
		}
	}

	combined := strings.Join(texts, "\n")

	vendor := extract.Classify(combined)
	if vendor == extract.VendorUnrecognized {
		return nil, ErrVendorNotRecognized
	}

	record := extract.ForVendor(vendor).Extract(combined)

	return &Outcome{
		Vendor:       vendor,
		CombinedText: combined,
		Record:       record,
		Preview:      preview,
	}, nil
}

// rasterize turns the upload into page images. Non-PDF image uploads become
// a single synthetic page.
func (p *Pipeline) rasterize(doc SourceDocument) ([]PageImage, error) {
	if isPDF(doc.Data, doc.ContentType) {
		return p.rasterizer.Rasterize(doc.Data)
	}

	pngData, err := imageToPNG(doc.Data, doc.ContentType)
	if err != nil {
		return nil, fmt.Errorf("converting image upload: %w", err)
	}
	return []PageImage{{Index: 1, PNG: pngData}}, nil
}

func (p *Pipeline) recognizePage(ctx context.Context, page PageImage) (string, error) {
	prepared, err := Preprocess(page.PNG)
	if err != nil {
		return "", &StageError{Stage: StagePreprocess, Err: fmt.Errorf("page %d: %w", page.Index, err)}
	}

	if p.ocrTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.ocrTimeout)
		defer cancel()
	}

	text, err := p.recognizer.Recognize(ctx, prepared)
	if err != nil {
		return "", &StageError{Stage: StageRecognize, Err: fmt.Errorf("page %d: %w", page.Index, err)}
	}
	return text, nil
}
