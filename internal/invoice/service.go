package invoice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/daviniapd/Voltix-back/internal/pipeline"
)

// Runner runs a document through the processing pipeline
type Runner interface {
	Run(ctx context.Context, doc pipeline.SourceDocument) (*pipeline.Outcome, error)
}

// IDGenerator generates unique IDs for invoices
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates random UUIDs
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return uuid.NewString()
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles invoice operations
type Service struct {
	db          DB
	runner      Runner
	storage     Storage
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source
func NewService(db DB, runner Runner, storage Storage) *Service {
	return &Service{
		db:          db,
		runner:      runner,
		storage:     storage,
		idGenerator: &defaultIDGenerator{},
		timeSource:  &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, runner Runner, storage Storage, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		db:          db,
		runner:      runner,
		storage:     storage,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// ProcessInvoice runs an uploaded document through the pipeline and persists
// the resulting invoice together with its first-page preview.
func (s *Service) ProcessInvoice(ctx context.Context, filename string, data []byte, contentType string) (*Invoice, error) {
	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	outcome, err := s.runner.Run(ctx, pipeline.SourceDocument{
		Name:        filename,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		slog.Error("Failed to process invoice",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		return nil, fmt.Errorf("processing invoice: %w", err)
	}

	imagePath, err := s.storage.Save(id+".png", outcome.Preview.PNG)
	if err != nil {
		return nil, fmt.Errorf("saving preview: %w", err)
	}

	invoice := &Invoice{
		ID:                 id,
		Filename:           filename,
		Vendor:             outcome.Vendor,
		BillingPeriodStart: outcome.Record.Periodo.Inicio,
		BillingPeriodEnd:   outcome.Record.Periodo.Fin,
		Data:               outcome.Record,
		OCRText:            outcome.CombinedText,
		ImagePath:          imagePath,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.db.SaveInvoice(invoice); err != nil {
		// Clean up the preview if the database save fails
		s.storage.Delete(imagePath)
		return nil, fmt.Errorf("saving invoice to database: %w", err)
	}

	return invoice, nil
}

// GetInvoice retrieves an invoice by ID
func (s *Service) GetInvoice(id string) (*Invoice, error) {
	invoice, err := s.db.GetInvoice(id)
	if err != nil {
		return nil, fmt.Errorf("getting invoice: %w", err)
	}
	return invoice, nil
}

// ListInvoices returns all invoices
func (s *Service) ListInvoices() ([]*Invoice, error) {
	invoices, err := s.db.ListInvoices()
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	return invoices, nil
}

// DeleteInvoice removes an invoice and its preview image
func (s *Service) DeleteInvoice(id string) error {
	invoice, err := s.db.GetInvoice(id)
	if err != nil {
		return fmt.Errorf("getting invoice for deletion: %w", err)
	}

	if err := s.storage.Delete(invoice.ImagePath); err != nil {
		// Log error but continue with database deletion
		slog.Warn("Failed to delete preview", "path", invoice.ImagePath, "error", err)
	}

	if err := s.db.DeleteInvoice(id); err != nil {
		return fmt.Errorf("deleting invoice from database: %w", err)
	}
	return nil
}

// GetInvoiceImage retrieves the preview image for an invoice
func (s *Service) GetInvoiceImage(id string) ([]byte, string, error) {
	invoice, err := s.db.GetInvoice(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting invoice: %w", err)
	}

	data, err := s.storage.Get(invoice.ImagePath)
	if err != nil {
		return nil, "", fmt.Errorf("getting invoice image: %w", err)
	}

	return data, "image/png", nil
}
