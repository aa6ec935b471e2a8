package domain

// QuoteCurrency selects the currency the quote is presented in.
type QuoteCurrency string

const (
	QuoteCurrencyUSD   QuoteCurrency = "USD"
	QuoteCurrencyLocal QuoteCurrency = "Local"
)

// Valid reports whether q is a supported quote currency.
func (q QuoteCurrency) Valid() bool {
	return q == QuoteCurrencyUSD || q == QuoteCurrencyLocal
}

// TableType identifies which screenshot table a field belongs to.
type TableType string

const (
	TablePay      TableType = "pay"
	TableEmployee TableType = "employee"
)

// RateSource records where a rate table came from.
type RateSource string

const (
	RateSourceLive     RateSource = "live"
	RateSourceFallback RateSource = "fallback"
)

// NotificationVariant mirrors the toast variants of the UI.
type NotificationVariant string

const (
	NotificationDefault     NotificationVariant = "default"
	NotificationDestructive NotificationVariant = "destructive"
)

// Step is the wizard step of a session.
type Step string

const (
	StepCollectingForm      Step = "collecting_form"
	StepAwaitingScreenshots Step = "awaiting_screenshots"
	StepReady               Step = "ready"
)

// SlotKind identifies one of the two screenshot upload slots.
type SlotKind string

const (
	SlotPay      SlotKind = "pay"
	SlotEmployee SlotKind = "employee"
)

// ParseSlotKind maps a path parameter to a SlotKind.
func ParseSlotKind(s string) (SlotKind, bool) {
	switch SlotKind(s) {
	case SlotPay:
		return SlotPay, true
	case SlotEmployee:
		return SlotEmployee, true
	}
	return "", false
}

// SlotStatus is the recognition state of a slot.
type SlotStatus string

const (
	SlotEmpty             SlotStatus = "empty"
	SlotRecognizing       SlotStatus = "recognizing"
	SlotRecognized        SlotStatus = "recognized"
	SlotRecognitionFailed SlotStatus = "recognition_failed"
)

// Settled reports whether recognition for the slot has finished, successfully or not.
func (s SlotStatus) Settled() bool {
	return s == SlotRecognized || s == SlotRecognitionFailed
}

// AllowedImageTypes maps accepted screenshot MIME types to file extensions.
var AllowedImageTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/bmp":  "bmp",
	"image/webp": "webp",
}
