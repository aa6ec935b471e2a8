package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"quotegen/internal/domain"
	"quotegen/internal/metrics"
	"quotegen/internal/port"
)

// SessionConfig holds wizard session settings.
type SessionConfig struct {
	MaxImageBytes      int64
	RecognitionTimeout time.Duration
	Concurrency        int
}

// SessionService drives the quote wizard: form, two screenshot uploads, analysis.
type SessionService interface {
	Create(ctx context.Context) (domain.Session, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Session, error)
	SubmitForm(ctx context.Context, id uuid.UUID, form domain.FormData) (domain.Session, error)
	Upload(ctx context.Context, id uuid.UUID, kind domain.SlotKind, image []byte) (domain.Session, error)
	// Subscribe streams recognition progress of a slot. The caller must invoke cancel.
	Subscribe(ctx context.Context, id uuid.UUID, kind domain.SlotKind) (<-chan ProgressEvent, func(), error)
	Analyze(ctx context.Context, id uuid.UUID) (domain.Session, error)
	SubmitManual(ctx context.Context, id uuid.UUID, pay, employee []domain.ParsedField) (domain.Session, error)
	DismissError(ctx context.Context, id uuid.UUID) (domain.Session, error)
	Reset(ctx context.Context, id uuid.UUID) (domain.Session, error)
	DrainNotifications(ctx context.Context, id uuid.UUID) ([]domain.Notification, error)
	// Wait blocks until in-flight recognitions have finished.
	Wait()
}

var errStaleRecognition = errors.New("recognition result belongs to a replaced upload")

type sessionService struct {
	repo      port.SessionRepository
	quotes    QuoteService
	extractor port.TextExtractor
	metrics   *metrics.Metrics
	cfg       SessionConfig
	hub       *progressHub
	sem       chan struct{}
	wg        sync.WaitGroup
	now       func() time.Time
}

// NewSessionService creates a new SessionService implementation.
func NewSessionService(
	repo port.SessionRepository,
	quotes QuoteService,
	extractor port.TextExtractor,
	m *metrics.Metrics,
	cfg SessionConfig,
) SessionService {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.RecognitionTimeout <= 0 {
		cfg.RecognitionTimeout = time.Minute
	}
	svc := &sessionService{
		repo:      repo,
		quotes:    quotes,
		extractor: extractor,
		metrics:   m,
		cfg:       cfg,
		hub:       newProgressHub(),
		sem:       make(chan struct{}, cfg.Concurrency),
		now:       time.Now,
	}
	if ev, ok := repo.(port.SessionEvictions); ok {
		ev.OnEvict(svc.hub.forget)
	}
	return svc
}

func (s *sessionService) Create(ctx context.Context) (domain.Session, error) {
	sess := domain.NewSession(uuid.New(), s.now().UTC())
	if err := s.repo.Create(ctx, sess); err != nil {
		return domain.Session{}, err
	}
	s.refreshActive(ctx)
	log.Printf("sessionService.Create: session %s", sess.ID)
	return sess, nil
}

func (s *sessionService) refreshActive(ctx context.Context) {
	if n, err := s.repo.Count(ctx); err == nil {
		s.metrics.SetActiveSessions(n)
	}
}

func (s *sessionService) Get(ctx context.Context, id uuid.UUID) (domain.Session, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *sessionService) SubmitForm(ctx context.Context, id uuid.UUID, form domain.FormData) (domain.Session, error) {
	form, err := s.quotes.PrepareForm(form)
	if err != nil {
		return domain.Session{}, err
	}
	return s.repo.Update(ctx, id, func(cur domain.Session) (domain.Session, error) {
		if cur.Step != domain.StepCollectingForm {
			return cur, fmt.Errorf("%w: form already submitted", domain.ErrInvalidTransition)
		}
		cur.Form = &form
		cur.Step = domain.StepAwaitingScreenshots
		cur.UpdatedAt = s.now().UTC()
		return cur, nil
	})
}

func (s *sessionService) validateImage(image []byte) error {
	if len(image) == 0 {
		return fmt.Errorf("%w: empty upload", domain.ErrUnsupportedImage)
	}
	if s.cfg.MaxImageBytes > 0 && int64(len(image)) > s.cfg.MaxImageBytes {
		return domain.ErrImageTooLarge
	}
	contentType := http.DetectContentType(image)
	if _, ok := domain.AllowedImageTypes[contentType]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedImage, contentType)
	}
	return nil
}

func (s *sessionService) Upload(ctx context.Context, id uuid.UUID, kind domain.SlotKind, image []byte) (domain.Session, error) {
	if err := s.validateImage(image); err != nil {
		return domain.Session{}, err
	}

	var gen uint64
	sess, err := s.repo.Update(ctx, id, func(cur domain.Session) (domain.Session, error) {
		if cur.Step == domain.StepCollectingForm {
			return cur, fmt.Errorf("%w: submit the quote form first", domain.ErrInvalidTransition)
		}
		slot := cur.Slot(kind)
		slot.Generation++
		slot.Status = domain.SlotRecognizing
		slot.Progress = 0
		slot.Text = ""
		slot.Error = ""
		gen = slot.Generation

		cur = cur.WithSlot(slot)
		cur.Step = domain.StepAwaitingScreenshots
		cur.UpdatedAt = s.now().UTC()
		return cur, nil
	})
	if err != nil {
		return domain.Session{}, err
	}

	key := slotKey{session: id, slot: kind}
	s.hub.reset(key, eventFromSlot(sess.Slot(kind)))

	// Copy so the caller's buffer can be reused once Upload returns.
	img := append([]byte(nil), image...)
	s.wg.Add(1)
	go s.recognize(id, kind, gen, img)

	log.Printf("sessionService.Upload: session %s slot %s generation %d (%d bytes)", id, kind, gen, len(image))
	return sess, nil
}

// recognize runs one upload's text extraction. Its result is stored only while the slot still
// holds the same generation; a re-upload makes it stale.
func (s *sessionService) recognize(id uuid.UUID, kind domain.SlotKind, gen uint64, image []byte) {
	defer s.wg.Done()
	s.sem <- struct{}{}
	defer func() { <-s.sem }()

	// Independent of the request context so the upload response does not cancel recognition.
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RecognitionTimeout)
	defer cancel()

	key := slotKey{session: id, slot: kind}
	start := s.now()
	last := -1
	progress := func(fraction float64) {
		pct := percent(fraction)
		if pct <= last {
			return
		}
		last = pct
		if !s.hub.publish(key, ProgressEvent{Slot: kind, Generation: gen, Status: domain.SlotRecognizing, Progress: pct}) {
			return
		}
		s.storeProgress(ctx, id, kind, gen, pct)
	}

	text, err := s.extractor.Extract(ctx, image, progress)
	status := "recognized"
	if err != nil {
		err = fmt.Errorf("%w: %s: %v", domain.ErrRecognitionFailed, s.extractor.Name(), err)
		log.Printf("sessionService.recognize: session %s slot %s: %v", id, kind, err)
		status = "failed"
	}

	sess, updateErr := s.repo.Update(context.Background(), id, func(cur domain.Session) (domain.Session, error) {
		slot := cur.Slot(kind)
		if slot.Generation != gen {
			return cur, errStaleRecognition
		}
		if err != nil {
			slot.Status = domain.SlotRecognitionFailed
			slot.Text = ""
			slot.Error = "Could not read the screenshot. Please upload it again."
			note := recognitionFailedNotification(kind)
			note.CreatedAt = s.now().UTC()
			cur.LastError = note.Description
			cur.Notifications = append(cur.Notifications, note)
		} else {
			slot.Status = domain.SlotRecognized
			slot.Text = text
			slot.Error = ""
		}
		slot.Progress = 100
		cur = cur.WithSlot(slot)
		cur.UpdatedAt = s.now().UTC()
		return cur, nil
	})
	if errors.Is(updateErr, domain.ErrSessionNotFound) {
		s.hub.forget(id)
	}
	switch {
	case errors.Is(updateErr, errStaleRecognition), errors.Is(updateErr, domain.ErrSessionNotFound):
		status = "stale"
		log.Printf("sessionService.recognize: discarding result for session %s slot %s generation %d", id, kind, gen)
	case updateErr != nil:
		status = "failed"
		log.Printf("sessionService.recognize: storing result for session %s: %v", id, updateErr)
	default:
		s.hub.publish(key, eventFromSlot(sess.Slot(kind)))
		log.Printf("sessionService.recognize: session %s slot %s %s (%d chars)", id, kind, status, len(text))
	}
	s.metrics.RecordRecognition(string(kind), status, s.now().Sub(start))
}

func (s *sessionService) storeProgress(ctx context.Context, id uuid.UUID, kind domain.SlotKind, gen uint64, pct int) {
	_, err := s.repo.Update(ctx, id, func(cur domain.Session) (domain.Session, error) {
		slot := cur.Slot(kind)
		if slot.Generation != gen || slot.Status != domain.SlotRecognizing {
			return cur, errStaleRecognition
		}
		slot.Progress = pct
		return cur.WithSlot(slot), nil
	})
	if err != nil && !errors.Is(err, errStaleRecognition) && !errors.Is(err, domain.ErrSessionNotFound) {
		log.Printf("sessionService.storeProgress: %v", err)
	}
}

func percent(fraction float64) int {
	if math.IsNaN(fraction) || fraction < 0 {
		return 0
	}
	if fraction > 1 {
		return 100
	}
	return int(math.Round(fraction * 100))
}

func (s *sessionService) Subscribe(ctx context.Context, id uuid.UUID, kind domain.SlotKind) (<-chan ProgressEvent, func(), error) {
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := s.hub.subscribe(slotKey{session: id, slot: kind}, eventFromSlot(sess.Slot(kind)))
	return ch, cancel, nil
}

func (s *sessionService) Analyze(ctx context.Context, id uuid.UUID) (domain.Session, error) {
	cur, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}
	if cur.Form == nil || cur.Step == domain.StepCollectingForm {
		return domain.Session{}, fmt.Errorf("%w: submit the quote form first", domain.ErrInvalidTransition)
	}
	if !cur.Pay.Status.Settled() || !cur.Employee.Status.Settled() {
		return domain.Session{}, domain.ErrSlotNotReady
	}

	notes := newNotificationLog(s.now)
	q, err := s.quotes.Analyze(ctx, AnalyzeInput{
		PayText:      cur.Pay.Text,
		EmployeeText: cur.Employee.Text,
		Form:         *cur.Form,
	}, notes)

	payGen, employeeGen := cur.Pay.Generation, cur.Employee.Generation
	return s.finish(ctx, id, q, err, notes, func(next domain.Session) error {
		if next.Pay.Generation != payGen || next.Employee.Generation != employeeGen {
			return fmt.Errorf("%w: screenshot replaced during analysis", domain.ErrSlotNotReady)
		}
		return nil
	})
}

func (s *sessionService) SubmitManual(ctx context.Context, id uuid.UUID, pay, employee []domain.ParsedField) (domain.Session, error) {
	cur, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Session{}, err
	}
	if cur.Form == nil || cur.Step == domain.StepCollectingForm {
		return domain.Session{}, fmt.Errorf("%w: submit the quote form first", domain.ErrInvalidTransition)
	}

	notes := newNotificationLog(s.now)
	q, err := s.quotes.Manual(ctx, ManualInput{PayFields: pay, EmployeeFields: employee, Form: *cur.Form}, notes)
	return s.finish(ctx, id, q, err, notes, nil)
}

// finish stores the outcome of an analysis in one transition. A failure keeps the previous
// quote and step and records a dismissable error instead.
func (s *sessionService) finish(
	ctx context.Context,
	id uuid.UUID,
	q *domain.QuoteData,
	analyzeErr error,
	notes *notificationLog,
	check func(domain.Session) error,
) (domain.Session, error) {
	sess, err := s.repo.Update(ctx, id, func(next domain.Session) (domain.Session, error) {
		if analyzeErr == nil && check != nil {
			analyzeErr = check(next)
		}
		if analyzeErr != nil {
			msg := userMessage(analyzeErr)
			notes.Notify(processingErrorNotification(msg))
			next.LastError = msg
		} else {
			next.Quote = q
			next.Step = domain.StepReady
			next.LastError = ""
		}
		next.Notifications = append(next.Notifications, notes.drain()...)
		next.UpdatedAt = s.now().UTC()
		return next, nil
	})
	if err != nil {
		return domain.Session{}, err
	}
	if analyzeErr != nil {
		log.Printf("sessionService.finish: session %s: %v", id, analyzeErr)
		return sess, analyzeErr
	}
	return sess, nil
}

func (s *sessionService) DismissError(ctx context.Context, id uuid.UUID) (domain.Session, error) {
	return s.repo.Update(ctx, id, func(cur domain.Session) (domain.Session, error) {
		cur.LastError = ""
		cur.Pay.Error = ""
		cur.Employee.Error = ""
		cur.UpdatedAt = s.now().UTC()
		return cur, nil
	})
}

func (s *sessionService) Reset(ctx context.Context, id uuid.UUID) (domain.Session, error) {
	sess, err := s.repo.Update(ctx, id, func(cur domain.Session) (domain.Session, error) {
		next := domain.NewSession(cur.ID, cur.CreatedAt)
		// Bumped generations make recognitions started before the reset stale.
		next.Pay.Generation = cur.Pay.Generation + 1
		next.Employee.Generation = cur.Employee.Generation + 1
		next.UpdatedAt = s.now().UTC()
		return next, nil
	})
	if err != nil {
		return domain.Session{}, err
	}
	for _, kind := range []domain.SlotKind{domain.SlotPay, domain.SlotEmployee} {
		s.hub.reset(slotKey{session: id, slot: kind}, eventFromSlot(sess.Slot(kind)))
	}
	log.Printf("sessionService.Reset: session %s", id)
	return sess, nil
}

func (s *sessionService) DrainNotifications(ctx context.Context, id uuid.UUID) ([]domain.Notification, error) {
	var drained []domain.Notification
	_, err := s.repo.Update(ctx, id, func(cur domain.Session) (domain.Session, error) {
		drained = cur.Notifications
		cur.Notifications = nil
		return cur, nil
	})
	if err != nil {
		return nil, err
	}
	if drained == nil {
		drained = []domain.Notification{}
	}
	return drained, nil
}

func (s *sessionService) Wait() {
	s.wg.Wait()
}
