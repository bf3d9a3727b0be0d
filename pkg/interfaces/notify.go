package interfaces

// NotificationService defines the outbound notification boundary.
// Delivery is one-way and fire-and-forget; no confirmation flows back.
type NotificationService interface {
	SendWhatsApp(phone, message string) error
	SendEmail(to, subject, body string) error
}

// Dispatcher receives a composed deep link addressed to a phone number.
// The default implementation logs the link; a mobile shell would hand it
// to the OS.
type Dispatcher interface {
	Dispatch(deepLink, fallbackURL string) error
}
