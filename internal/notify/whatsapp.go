package notify

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/centroimagen/booking-api/pkg/config"
	"github.com/centroimagen/booking-api/pkg/interfaces"
	"github.com/centroimagen/booking-api/pkg/logger"
)

var nonDigits = regexp.MustCompile(`\D`)

// AppointmentMessage carries the fields interpolated into appointment templates
type AppointmentMessage struct {
	UserName    string
	Date        string
	Time        string
	Service     string
	Center      string
	Price       float64
	Preparation string
	Reason      string
}

// ResultMessage carries the fields interpolated into result templates
type ResultMessage struct {
	UserName  string
	Date      string
	Service   string
	Doctor    string
	Diagnosis string
}

// WhatsAppComposer builds WhatsApp messages from the clinic templates and
// hands the composed deep link to a Dispatcher. Delivery is one-way; no
// confirmation ever flows back.
type WhatsAppComposer struct {
	config     *config.NotifyConfig
	logger     *logger.Logger
	dispatcher interfaces.Dispatcher
}

// NewWhatsAppComposer creates a new WhatsApp composer
func NewWhatsAppComposer(cfg *config.NotifyConfig, log *logger.Logger, dispatcher interfaces.Dispatcher) *WhatsAppComposer {
	if dispatcher == nil {
		dispatcher = &LogDispatcher{logger: log}
	}
	return &WhatsAppComposer{
		config:     cfg,
		logger:     log,
		dispatcher: dispatcher,
	}
}

// NormalizePhone converts a local phone number to international format:
// every non-digit is stripped, a single leading zero is dropped, and the
// country code is enforced as prefix. "099-123-4567" becomes "593991234567".
func NormalizePhone(phone, countryCode string) string {
	digits := nonDigits.ReplaceAllString(phone, "")
	if strings.HasPrefix(digits, countryCode) {
		return digits
	}
	digits = strings.TrimPrefix(digits, "0")
	return countryCode + digits
}

// Send composes the message, builds the deep link and its browser
// fallback, and dispatches them.
func (c *WhatsAppComposer) Send(phone, message string) error {
	formatted := NormalizePhone(phone, c.config.CountryCode)
	encoded := url.QueryEscape(message)

	deepLink := fmt.Sprintf("whatsapp://send?phone=%s&text=%s", formatted, encoded)
	fallback := fmt.Sprintf("https://wa.me/%s?text=%s", formatted, encoded)

	return c.dispatcher.Dispatch(deepLink, fallback)
}

// AppointmentConfirmation composes the booking confirmation message
func (c *WhatsAppComposer) AppointmentConfirmation(phone string, data *AppointmentMessage) error {
	preparation := data.Preparation
	if preparation == "" {
		preparation = "No requiere preparación especial"
	}

	message := fmt.Sprintf(`🏥 *Centro Imagen - Confirmación de Cita*

¡Hola %s!

Tu cita ha sido confirmada exitosamente:

📅 *Fecha:* %s
🕐 *Hora:* %s
🏥 *Servicio:* %s
📍 *Centro:* %s
💰 *Precio:* $%.0f

*Instrucciones importantes:*
• Llega 15 minutos antes de tu cita
• Trae tu cédula de identidad
• %s

Si necesitas cancelar o reprogramar, contáctanos al %s.

¡Te esperamos! 🩺`,
		data.UserName, data.Date, data.Time, data.Service, data.Center,
		data.Price, preparation, c.config.SupportPhone)

	return c.Send(phone, message)
}

// ResultsReady composes the results-ready message
func (c *WhatsAppComposer) ResultsReady(phone string, data *ResultMessage) error {
	message := fmt.Sprintf(`🏥 *Centro Imagen - Resultados Listos*

¡Hola %s!

Tus resultados están listos para revisar:

📅 *Fecha del estudio:* %s
🏥 *Servicio:* %s
👨‍⚕️ *Doctor:* %s

*Diagnóstico:* %s

Puedes acceder a tus resultados desde la aplicación o en nuestro centro médico.

Si tienes alguna pregunta, no dudes en contactarnos.

¡Gracias por confiar en nosotros! 🩺`,
		data.UserName, data.Date, data.Service, data.Doctor, data.Diagnosis)

	return c.Send(phone, message)
}

// AppointmentUpdate composes the cancellation/reschedule message
func (c *WhatsAppComposer) AppointmentUpdate(phone string, data *AppointmentMessage, change string) error {
	reason := data.Reason
	if reason == "" {
		reason = "Por favor contacta con nosotros para más información"
	}

	message := fmt.Sprintf(`🏥 *Centro Imagen - Actualización de Cita*

¡Hola %s!

Tu cita ha sido %s:

📅 *Nueva fecha:* %s
🕐 *Nueva hora:* %s
🏥 *Servicio:* %s
📍 *Centro:* %s

*Motivo:* %s

Si tienes alguna pregunta, contáctanos al %s.

¡Gracias por tu comprensión! 🩺`,
		data.UserName, change, data.Date, data.Time, data.Service,
		data.Center, reason, c.config.SupportPhone)

	return c.Send(phone, message)
}

// AppointmentReminder composes the day-before reminder message
func (c *WhatsAppComposer) AppointmentReminder(phone string, data *AppointmentMessage) error {
	preparation := data.Preparation
	if preparation == "" {
		preparation = "No requiere preparación especial"
	}

	message := fmt.Sprintf(`🏥 *Centro Imagen - Recordatorio de Cita*

¡Hola %s!

Te recordamos que tienes una cita mañana:

📅 *Fecha:* %s
🕐 *Hora:* %s
🏥 *Servicio:* %s
📍 *Centro:* %s

*Instrucciones:*
• Llega 15 minutos antes
• Trae tu cédula de identidad
• %s

Si necesitas cancelar o reprogramar, contáctanos al %s.

¡Te esperamos! 🩺`,
		data.UserName, data.Date, data.Time, data.Service, data.Center,
		preparation, c.config.SupportPhone)

	return c.Send(phone, message)
}

// Welcome composes the new-user welcome message
func (c *WhatsAppComposer) Welcome(phone, userName string) error {
	message := fmt.Sprintf(`🏥 *Centro Imagen - ¡Bienvenido!*

¡Hola %s!

¡Bienvenido a Centro Imagen! 🎉

Ahora puedes:
• Agendar citas desde la app
• Ver tus resultados médicos
• Consultar nuestros servicios
• Encontrar nuestros centros

*Nuestros servicios:*
🩺 Radiografías
🩺 Ecografías
🩺 Mamografías
🩺 Tomografías
🩺 Resonancias Magnéticas
🩺 Densitometrías

Si tienes alguna pregunta, contáctanos al %s.

¡Gracias por elegirnos! 🩺`, userName, c.config.SupportPhone)

	return c.Send(phone, message)
}

// Promotional composes a free-form promotional message
func (c *WhatsAppComposer) Promotional(phone, title, content string) error {
	message := fmt.Sprintf(`🏥 *Centro Imagen - %s*

%s

Para más información, contáctanos al %s.

¡Gracias por confiar en nosotros! 🩺`, title, content, c.config.SupportPhone)

	return c.Send(phone, message)
}

// Contact composes the general contact message with services and hours
func (c *WhatsAppComposer) Contact(phone string) error {
	message := fmt.Sprintf(`🏥 *Centro Imagen*

¡Hola! 👋

¿En qué podemos ayudarte hoy?

*Nuestros servicios:*
🩺 Radiografías
🩺 Ecografías
🩺 Mamografías
🩺 Tomografías
🩺 Resonancias Magnéticas
🩺 Densitometrías

*Horarios de atención:*
Lunes a Viernes: 7:00 AM - 7:00 PM
Sábados: 8:00 AM - 4:00 PM
Domingos: 8:00 AM - 2:00 PM

*Contacto:*
📞 %s
📧 info@centroimagen.com
🌐 www.centroimagen.com

¡Estamos aquí para cuidar tu salud! 🩺`, c.config.SupportPhone)

	return c.Send(phone, message)
}

// LogDispatcher logs composed deep links instead of opening them. It is
// the default dispatcher; a mobile shell would hand the link to the OS.
type LogDispatcher struct {
	logger *logger.Logger
}

// NewLogDispatcher creates a dispatcher that logs the deep link
func NewLogDispatcher(log *logger.Logger) *LogDispatcher {
	return &LogDispatcher{logger: log}
}

// Dispatch logs the deep link and its fallback URL
func (d *LogDispatcher) Dispatch(deepLink, fallbackURL string) error {
	d.logger.WithFields(map[string]interface{}{
		"deep_link": deepLink,
		"fallback":  fallbackURL,
	}).Info("WhatsApp message dispatched")
	return nil
}

var _ interfaces.Dispatcher = (*LogDispatcher)(nil)
