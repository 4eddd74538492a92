package services

import (
	"context"

	"github.com/franzego/maybunga-notifications/internal/models"
	"github.com/franzego/maybunga-notifications/internal/templates"
)

// The typed senders below build the variable set each template expects from a
// domain object and pick the urgency for the notification type.

func (n *NotificationService) SendAppointmentReminder(ctx context.Context, patient models.Patient, appt models.Appointment) models.DeliveryResult {
	return n.SendNotification(ctx, patient, models.AppointmentReminder, n.appointmentVars(appt), n.options(patient, models.UrgencyNormal))
}

func (n *NotificationService) SendAppointmentConfirmation(ctx context.Context, patient models.Patient, appt models.Appointment) models.DeliveryResult {
	return n.SendNotification(ctx, patient, models.AppointmentConfirmation, n.appointmentVars(appt), n.options(patient, models.UrgencyNormal))
}

func (n *NotificationService) SendVaccinationReminder(ctx context.Context, patient models.Patient, v models.Vaccination) models.DeliveryResult {
	vars := n.withPortal(map[string]string{
		"vaccineName": v.VaccineName,
		"dueDate":     v.DueDate.Long(),
	})
	return n.SendNotification(ctx, patient, models.VaccinationReminder, vars, n.options(patient, models.UrgencyHigh))
}

func (n *NotificationService) SendCheckupReminder(ctx context.Context, patient models.Patient, c models.Checkup) models.DeliveryResult {
	checkupType := c.Type
	if checkupType == "" {
		checkupType = "regular"
	}
	lastCheckup := c.LastCheckup.Long()
	if lastCheckup == "" {
		lastCheckup = "No record on file"
	}
	vars := n.withPortal(map[string]string{
		"checkupType": checkupType,
		"lastCheckup": lastCheckup,
	})
	return n.SendNotification(ctx, patient, models.CheckupReminder, vars, n.options(patient, models.UrgencyNormal))
}

func (n *NotificationService) SendPrescriptionReady(ctx context.Context, patient models.Patient, p models.Prescription) models.DeliveryResult {
	available := p.AvailableDate.Long()
	if available == "" {
		available = "Today"
	}
	vars := map[string]string{
		"medication":    p.Medication,
		"availableDate": available,
	}
	return n.SendNotification(ctx, patient, models.PrescriptionReady, vars, n.options(patient, models.UrgencyNormal))
}

// SendLabResultsReady has no SMS template, so the message variable carries the
// text used when the patient is reached by SMS.
func (n *NotificationService) SendLabResultsReady(ctx context.Context, patient models.Patient, r models.LabResult) models.DeliveryResult {
	vars := n.withPortal(map[string]string{
		"testName": r.TestName,
		"message": templates.Render("Hi {patientName}! Your {testName} results are now available. Please visit "+templates.ClinicName+" to review them.",
			map[string]string{"patientName": patient.FullName(), "testName": r.TestName}),
	})
	return n.SendNotification(ctx, patient, models.LabResultsReady, vars, n.options(patient, models.UrgencyHigh))
}

func (n *NotificationService) SendEmergencyAlert(ctx context.Context, patient models.Patient, a models.Alert) models.DeliveryResult {
	return n.SendNotification(ctx, patient, models.EmergencyAlert, map[string]string{"message": a.Message}, n.options(patient, models.UrgencyUrgent))
}

func (n *NotificationService) appointmentVars(appt models.Appointment) map[string]string {
	apptType := appt.Type
	if apptType == "" {
		apptType = "General Consultation"
	}
	doctor := appt.Doctor
	if doctor == "" {
		doctor = "To be assigned"
	}
	return map[string]string{
		"date":            appt.Date.Long(),
		"time":            appt.Time,
		"doctor":          doctor,
		"appointmentType": apptType,
	}
}

func (n *NotificationService) withPortal(vars map[string]string) map[string]string {
	if n.portalURL != "" {
		vars["actionUrl"] = n.portalURL
	}
	return vars
}

func (n *NotificationService) options(patient models.Patient, urgency string) models.SendOptions {
	return models.SendOptions{Urgency: urgency, PatientName: patient.FullName()}
}
