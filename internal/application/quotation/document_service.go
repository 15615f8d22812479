package quotation

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/cotizador/backend/internal/domain/quotation"
	"github.com/cotizador/backend/internal/domain/shared"
	"github.com/cotizador/backend/internal/infrastructure/printing"
	"github.com/cotizador/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ErrArchiveDisabled is returned when no object storage is configured
var ErrArchiveDisabled = shared.NewDomainError("ARCHIVE_DISABLED", "El archivo de cotizaciones no está habilitado")

// DocumentBuilder renders a quotation view into a complete in-memory document
type DocumentBuilder interface {
	Build(ctx context.Context, view *quotation.View) (*printing.Document, error)
}

// ArchiveStorage is the object storage the archive uploads to
type ArchiveStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	PresignDownload(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
}

// DocumentService turns stored quotations into printable documents
type DocumentService struct {
	views         quotation.ViewReader
	builder       DocumentBuilder
	storage       ArchiveStorage
	presignExpiry time.Duration
	location      *time.Location
	now           func() time.Time
	logger        *zap.Logger
}

// DocumentOption configures a DocumentService
type DocumentOption func(*DocumentService)

// WithArchive enables uploading rendered documents to storage
func WithArchive(storage ArchiveStorage, presignExpiry time.Duration) DocumentOption {
	return func(s *DocumentService) {
		s.storage = storage
		if presignExpiry > 0 {
			s.presignExpiry = presignExpiry
		}
	}
}

// WithLocation sets the zone the printed date is computed in
func WithLocation(loc *time.Location) DocumentOption {
	return func(s *DocumentService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) DocumentOption {
	return func(s *DocumentService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithDocumentLogger sets the logger
func WithDocumentLogger(l *zap.Logger) DocumentOption {
	return func(s *DocumentService) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(views quotation.ViewReader, builder DocumentBuilder, opts ...DocumentOption) *DocumentService {
	s := &DocumentService{
		views:         views,
		builder:       builder,
		presignExpiry: 15 * time.Minute,
		location:      time.UTC,
		now:           time.Now,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadView reads the joined projection and stamps the issue date with
// today's date at midnight in the configured location.
func (s *DocumentService) LoadView(ctx context.Context, id uuid.UUID) (*quotation.View, error) {
	view, err := s.views.LoadView(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now().In(s.location)
	view.IssuedAt = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
	return view, nil
}

// Build renders the quotation fully in memory. Callers can inspect the
// error before committing any response bytes.
func (s *DocumentService) Build(ctx context.Context, id uuid.UUID) (*printing.Document, error) {
	view, err := s.LoadView(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.builder.Build(ctx, view)
}

// Archive renders the quotation, stores it and returns a temporary link
func (s *DocumentService) Archive(ctx context.Context, id uuid.UUID) (*ArchiveResponse, error) {
	if s.storage == nil {
		return nil, ErrArchiveDisabled
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "quotation", "archive",
		telemetry.WithAttribute(telemetry.SpanAttrQuotationID, id))
	defer span.End()

	resp, err := s.archive(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrArchiveKey, resp.Key)
	return resp, nil
}

func (s *DocumentService) archive(ctx context.Context, id uuid.UUID) (*ArchiveResponse, error) {
	view, err := s.LoadView(ctx, id)
	if err != nil {
		return nil, err
	}
	doc, err := s.builder.Build(ctx, view)
	if err != nil {
		return nil, err
	}

	key := ArchiveKey(view)
	if err := s.storage.Upload(ctx, key, doc.Bytes(), "application/pdf"); err != nil {
		return nil, fmt.Errorf("failed to archive quotation: %w", err)
	}
	telemetry.AddEvent(trace.SpanFromContext(ctx), "uploaded", "bytes", doc.Len())

	url, expiresAt, err := s.storage.PresignDownload(ctx, key, s.presignExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to presign archived quotation: %w", err)
	}

	s.logger.Info("quotation archived",
		zap.String("quotation_id", id.String()),
		zap.String("key", key),
		zap.Int("pages", doc.Pages),
		zap.Int("bytes", doc.Len()),
		zap.Bool("degraded", doc.Degraded))

	return &ArchiveResponse{
		Key:       key,
		URL:       url,
		ExpiresAt: expiresAt,
		Filename:  doc.Filename,
		Pages:     doc.Pages,
		Size:      doc.Len(),
		Degraded:  doc.Degraded,
	}, nil
}

// ArchiveKey is the object key of an archived document:
// quotations/<yyyy>/<mm>/<number>.pdf, dated by the issue date.
func ArchiveKey(view *quotation.View) string {
	return path.Join("quotations",
		fmt.Sprintf("%04d", view.IssuedAt.Year()),
		fmt.Sprintf("%02d", int(view.IssuedAt.Month())),
		view.Filename())
}
