package notify

import (
	"github.com/centroimagen/booking-api/pkg/interfaces"
	"github.com/centroimagen/booking-api/pkg/logger"
	"github.com/centroimagen/booking-api/pkg/monitoring"
	"github.com/centroimagen/booking-api/pkg/types"
)

// Manager fans appointment and result events out to WhatsApp and email.
// Every notification is fire-and-forget: failures are logged and counted,
// never propagated to the operation that triggered them.
type Manager struct {
	logger   *logger.Logger
	metrics  *monitoring.MetricsCollector
	whatsapp *WhatsAppComposer
	email    *EmailSender
}

// NewManager creates a new notification manager
func NewManager(log *logger.Logger, metrics *monitoring.MetricsCollector, whatsapp *WhatsAppComposer, email *EmailSender) *Manager {
	return &Manager{
		logger:   log,
		metrics:  metrics,
		whatsapp: whatsapp,
		email:    email,
	}
}

// SendWhatsApp sends a raw WhatsApp message
func (m *Manager) SendWhatsApp(phone, message string) error {
	err := m.whatsapp.Send(phone, message)
	m.record("whatsapp", "raw", err)
	return err
}

// SendEmail sends a raw email
func (m *Manager) SendEmail(to, subject, body string) error {
	err := m.email.Send(to, subject, body)
	m.record("email", "raw", err)
	return err
}

// AppointmentBooked notifies the identity that its appointment was created
func (m *Manager) AppointmentBooked(identity *types.Identity, apt *types.Appointment, preparation string) {
	data := &AppointmentMessage{
		UserName:    identity.Name,
		Date:        apt.Date,
		Time:        apt.Time,
		Service:     apt.ServiceName,
		Center:      apt.CenterName,
		Price:       apt.Price,
		Preparation: preparation,
	}

	m.record("whatsapp", "appointment_confirmation", m.whatsapp.AppointmentConfirmation(identity.Phone, data))
	m.record("email", "appointment_confirmation", m.email.Send(identity.Email,
		"Centro Imagen - Confirmación de Cita",
		"Tu cita de "+apt.ServiceName+" ha sido agendada para el "+apt.Date+" a las "+apt.Time+" en "+apt.CenterName+"."))
}

// AppointmentCancelled notifies the identity that its appointment changed
func (m *Manager) AppointmentCancelled(identity *types.Identity, apt *types.Appointment, reason string) {
	data := &AppointmentMessage{
		UserName: identity.Name,
		Date:     apt.Date,
		Time:     apt.Time,
		Service:  apt.ServiceName,
		Center:   apt.CenterName,
		Reason:   reason,
	}

	m.record("whatsapp", "appointment_update", m.whatsapp.AppointmentUpdate(identity.Phone, data, "cancelada"))
}

// AppointmentReminder reminds the identity of an upcoming appointment
func (m *Manager) AppointmentReminder(identity *types.Identity, apt *types.Appointment, preparation string) {
	data := &AppointmentMessage{
		UserName:    identity.Name,
		Date:        apt.Date,
		Time:        apt.Time,
		Service:     apt.ServiceName,
		Center:      apt.CenterName,
		Preparation: preparation,
	}

	m.record("whatsapp", "appointment_reminder", m.whatsapp.AppointmentReminder(identity.Phone, data))
}

// ResultsReady notifies the identity that its results can be reviewed
func (m *Manager) ResultsReady(identity *types.Identity, result *types.Result) {
	data := &ResultMessage{
		UserName:  identity.Name,
		Date:      result.Date,
		Service:   result.ServiceName,
		Doctor:    result.Doctor,
		Diagnosis: result.Diagnosis,
	}

	m.record("whatsapp", "results_ready", m.whatsapp.ResultsReady(identity.Phone, data))
	m.record("email", "results_ready", m.email.Send(identity.Email,
		"Centro Imagen - Resultados Listos",
		"Tus resultados de "+result.ServiceName+" están listos para revisar en la aplicación."))
}

// Welcome greets a freshly registered identity
func (m *Manager) Welcome(identity *types.Identity) {
	m.record("whatsapp", "welcome", m.whatsapp.Welcome(identity.Phone, identity.Name))
}

func (m *Manager) record(channel, template string, err error) {
	if err != nil {
		m.logger.WithError(err).WithFields(map[string]interface{}{
			"channel":  channel,
			"template": template,
		}).Warn("Notification delivery failed")
	}
	if m.metrics != nil {
		m.metrics.RecordNotification(channel, template, err == nil)
	}
}

var _ interfaces.NotificationService = (*Manager)(nil)
