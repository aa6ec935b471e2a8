package port

import "quotegen/internal/domain"

// Notifier publishes user-visible notifications. Publishing is fire-and-forget.
type Notifier interface {
	Notify(n domain.Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n domain.Notification)

func (f NotifierFunc) Notify(n domain.Notification) { f(n) }
