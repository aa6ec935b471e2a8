package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"quotegen/internal/domain"
	"quotegen/internal/export"
	"quotegen/internal/metrics"
	"quotegen/internal/port"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// DeliveryConfig holds quote publishing settings.
type DeliveryConfig struct {
	Bucket string
	// LinkTTL is how long a published quote link stays valid.
	LinkTTL time.Duration
}

// PublishResult describes a quote uploaded for sharing.
type PublishResult struct {
	FileName  string    `json:"fileName"`
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// EmailInput is the DTO for e-mailing a published quote.
type EmailInput struct {
	ToEmail string
	ToName  string
}

// DeliveryService turns a session's computed quote into files and shares them.
type DeliveryService interface {
	RenderPDF(ctx context.Context, sessionID uuid.UUID) (*port.Document, error)
	ExportCSV(ctx context.Context, sessionID uuid.UUID) (*port.Document, error)
	ExportXLSX(ctx context.Context, sessionID uuid.UUID) (*port.Document, error)
	Publish(ctx context.Context, sessionID uuid.UUID) (*PublishResult, error)
	Email(ctx context.Context, sessionID uuid.UUID, input EmailInput) (*PublishResult, error)
}

type deliveryService struct {
	repo     port.SessionRepository
	renderer port.DocumentRenderer
	storage  port.ObjectStorage
	mailer   port.QuoteMailer
	metrics  *metrics.Metrics
	cfg      DeliveryConfig
	now      func() time.Time
}

// NewDeliveryService creates a new DeliveryService implementation. A nil storage disables
// publishing and a nil mailer disables e-mail.
func NewDeliveryService(
	repo port.SessionRepository,
	renderer port.DocumentRenderer,
	storage port.ObjectStorage,
	mailer port.QuoteMailer,
	m *metrics.Metrics,
	cfg DeliveryConfig,
) DeliveryService {
	return &deliveryService{
		repo:     repo,
		renderer: renderer,
		storage:  storage,
		mailer:   mailer,
		metrics:  m,
		cfg:      cfg,
		now:      time.Now,
	}
}

// readyQuote returns the session's quote and form, or ErrQuoteNotReady.
func (s *deliveryService) readyQuote(ctx context.Context, id uuid.UUID) (domain.QuoteData, domain.FormData, error) {
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.QuoteData{}, domain.FormData{}, err
	}
	if sess.Quote == nil || sess.Form == nil {
		return domain.QuoteData{}, domain.FormData{}, domain.ErrQuoteNotReady
	}
	return *sess.Quote, *sess.Form, nil
}

func (s *deliveryService) addNotification(ctx context.Context, id uuid.UUID, note domain.Notification) {
	note.CreatedAt = s.now().UTC()
	_, err := s.repo.Update(ctx, id, func(cur domain.Session) (domain.Session, error) {
		cur.Notifications = append(cur.Notifications, note)
		return cur, nil
	})
	if err != nil {
		log.Printf("deliveryService.addNotification: session %s: %v", id, err)
	}
}

func (s *deliveryService) RenderPDF(ctx context.Context, sessionID uuid.UUID) (*port.Document, error) {
	q, form, err := s.readyQuote(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	doc, err := s.renderer.Render(ctx, port.RenderInput{Quote: q, Form: form, GeneratedAt: s.now()})
	if err != nil {
		log.Printf("deliveryService.RenderPDF: session %s: %v", sessionID, err)
		s.metrics.RecordDocument("pdf", "failed")
		s.addNotification(ctx, sessionID, pdfFailedNotification())
		if !errors.Is(err, domain.ErrRenderFailed) {
			err = fmt.Errorf("%w: %v", domain.ErrRenderFailed, err)
		}
		return nil, err
	}

	s.metrics.RecordDocument("pdf", "ok")
	s.addNotification(ctx, sessionID, pdfGeneratedNotification())
	return doc, nil
}

func (s *deliveryService) ExportCSV(ctx context.Context, sessionID uuid.UUID) (*port.Document, error) {
	q, form, err := s.readyQuote(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, q); err != nil {
		s.metrics.RecordDocument("csv", "failed")
		return nil, fmt.Errorf("%w: csv: %v", domain.ErrRenderFailed, err)
	}
	s.metrics.RecordDocument("csv", "ok")
	return &port.Document{
		FileName:    export.FileName(form.ClientName, s.now(), "csv"),
		ContentType: contentTypeCSV,
		Bytes:       buf.Bytes(),
	}, nil
}

func (s *deliveryService) ExportXLSX(ctx context.Context, sessionID uuid.UUID) (*port.Document, error) {
	q, form, err := s.readyQuote(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, q, form); err != nil {
		s.metrics.RecordDocument("xlsx", "failed")
		return nil, fmt.Errorf("%w: xlsx: %v", domain.ErrRenderFailed, err)
	}
	s.metrics.RecordDocument("xlsx", "ok")
	return &port.Document{
		FileName:    export.FileName(form.ClientName, s.now(), "xlsx"),
		ContentType: contentTypeXLSX,
		Bytes:       buf.Bytes(),
	}, nil
}

func (s *deliveryService) Publish(ctx context.Context, sessionID uuid.UUID) (*PublishResult, error) {
	if s.storage == nil {
		return nil, fmt.Errorf("%w: quote publishing is not configured", domain.ErrDeliveryFailed)
	}
	doc, err := s.RenderPDF(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("quotes/%s/%s", sessionID, doc.FileName)
	location, err := s.storage.Put(ctx, port.StoredDocument{Bucket: s.cfg.Bucket, Key: key, Document: *doc})
	if err != nil {
		log.Printf("deliveryService.Publish: upload for session %s failed: %v", sessionID, err)
		s.metrics.RecordDocument("publish", "failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}

	url, err := s.storage.PresignGet(ctx, s.cfg.Bucket, key, s.cfg.LinkTTL)
	if err != nil {
		log.Printf("deliveryService.Publish: presign for session %s failed: %v", sessionID, err)
		s.metrics.RecordDocument("publish", "failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}

	s.metrics.RecordDocument("publish", "ok")
	log.Printf("deliveryService.Publish: session %s published to %s", sessionID, location)
	return &PublishResult{
		FileName:  doc.FileName,
		Key:       key,
		URL:       url,
		ExpiresAt: s.now().UTC().Add(s.cfg.LinkTTL),
	}, nil
}

func (s *deliveryService) Email(ctx context.Context, sessionID uuid.UUID, input EmailInput) (*PublishResult, error) {
	if s.mailer == nil {
		return nil, fmt.Errorf("%w: quote e-mail is not configured", domain.ErrDeliveryFailed)
	}
	if !strings.Contains(input.ToEmail, "@") {
		return nil, fmt.Errorf("%w: a valid recipient e-mail is required", domain.ErrInvalidForm)
	}
	_, form, err := s.readyQuote(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	published, err := s.Publish(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	err = s.mailer.SendQuoteLink(ctx, port.QuoteEmail{
		ToEmail:    input.ToEmail,
		ToName:     input.ToName,
		SenderName: form.AEName,
		ClientName: form.ClientName,
		FileName:   published.FileName,
		Link:       published.URL,
	})
	if err != nil {
		log.Printf("deliveryService.Email: session %s: %v", sessionID, err)
		s.metrics.RecordDocument("email", "failed")
		return nil, fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}
	s.metrics.RecordDocument("email", "ok")
	return published, nil
}
