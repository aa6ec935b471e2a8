package service

import (
	"errors"
	"sync"
	"time"

	"quotegen/internal/domain"
	"quotegen/internal/port"
)

const genericProcessingError = "Failed to process the images. Please try again."

func successNotification() domain.Notification {
	return domain.Notification{
		Variant:     domain.NotificationDefault,
		Title:       "Success!",
		Description: "Quote data extracted and calculated successfully.",
	}
}

func processingErrorNotification(message string) domain.Notification {
	return domain.Notification{
		Variant:     domain.NotificationDestructive,
		Title:       "Processing Error",
		Description: message,
	}
}

func recognitionFailedNotification(kind domain.SlotKind) domain.Notification {
	return domain.Notification{
		Variant:     domain.NotificationDestructive,
		Title:       "Recognition Failed",
		Description: "Could not read the " + slotTitle(kind) + " screenshot. Please upload it again.",
	}
}

func pdfGeneratedNotification() domain.Notification {
	return domain.Notification{
		Variant:     domain.NotificationDefault,
		Title:       "PDF Generated",
		Description: "Your quote has been downloaded successfully.",
	}
}

func pdfFailedNotification() domain.Notification {
	return domain.Notification{
		Variant:     domain.NotificationDestructive,
		Title:       "PDF Generation Failed",
		Description: "There was an error generating the PDF. Please try again.",
	}
}

func slotTitle(kind domain.SlotKind) string {
	if kind == domain.SlotEmployee {
		return "Amount Employee Gets"
	}
	return "Amount You Pay"
}

// userMessage is the text shown for a failed analyze attempt.
func userMessage(err error) string {
	var missing *domain.MissingRequiredFieldError
	switch {
	case errors.As(err, &missing):
		return missing.UserMessage()
	case errors.Is(err, domain.ErrInvalidForm):
		return err.Error()
	case errors.Is(err, domain.ErrInconsistentQuote):
		return "The calculated quote did not pass consistency checks. Please review the screenshots and try again."
	case errors.Is(err, domain.ErrSlotNotReady):
		return "A screenshot was replaced while the quote was being calculated. Please analyze again."
	}
	return genericProcessingError
}

func notify(n port.Notifier, note domain.Notification) {
	if n != nil {
		n.Notify(note)
	}
}

// notificationLog buffers notifications raised during one request so they can be stored on the
// session in a single transition.
type notificationLog struct {
	mu    sync.Mutex
	items []domain.Notification
	now   func() time.Time
}

func newNotificationLog(now func() time.Time) *notificationLog {
	return &notificationLog{now: now}
}

func (l *notificationLog) Notify(n domain.Notification) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = l.now()
	}
	l.items = append(l.items, n)
}

func (l *notificationLog) drain() []domain.Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.items
	l.items = nil
	return out
}
