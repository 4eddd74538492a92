package templates

import "github.com/franzego/maybunga-notifications/internal/models"

var catalog = map[models.NotificationType]Template{
	models.AppointmentReminder: {
		SMS:          "Hi {patientName}! This is a reminder that you have an appointment scheduled for {date} at {time}. Please arrive 15 minutes early. - Maybunga Health Center",
		EmailSubject: "Appointment Reminder - Maybunga Health Center",
		EmailBody: `<h2 style="color:#2c5aa0;">Appointment Reminder</h2>
<p>Dear {patientName},</p>
<p>This is a friendly reminder about your upcoming appointment.</p>
<div style="background:#f0f6ff;border-left:4px solid #2c5aa0;padding:15px;margin:20px 0;">
<p><strong>Date:</strong> {date}</p>
<p><strong>Time:</strong> {time}</p>
<p><strong>Type:</strong> {appointmentType}</p>
</div>
<p>Please arrive 15 minutes early and bring a valid ID.</p>`,
	},
	models.AppointmentConfirmation: {
		SMS:          "Hi {patientName}! Your appointment on {date} at {time} has been confirmed. We look forward to seeing you. - Maybunga Health Center",
		EmailSubject: "Appointment Confirmed - Maybunga Health Center",
		EmailBody: `<h2 style="color:#28a745;">Appointment Confirmed</h2>
<p>Dear {patientName},</p>
<p>Your appointment has been confirmed.</p>
<div style="background:#eefaf1;border-left:4px solid #28a745;padding:15px;margin:20px 0;">
<p><strong>Date:</strong> {date}</p>
<p><strong>Time:</strong> {time}</p>
<p><strong>Doctor:</strong> {doctor}</p>
</div>
<p>If you need to reschedule, please contact the health center.</p>`,
	},
	models.VaccinationReminder: {
		SMS:          "Hi {patientName}! Your {vaccineName} vaccination is due on {dueDate}. Please visit Maybunga Health Center to stay protected.",
		EmailSubject: "{vaccineName} Vaccination Reminder",
		EmailBody: `<h2 style="color:#2c5aa0;">Vaccination Reminder</h2>
<p>Dear {patientName},</p>
<p>Your <strong>{vaccineName}</strong> vaccination is coming up.</p>
<div style="background:#fff8e6;border-left:4px solid #f0ad4e;padding:15px;margin:20px 0;">
<p><strong>Due date:</strong> {dueDate}</p>
</div>`,
		ActionLabel: "Schedule Vaccination",
	},
	models.CheckupReminder: {
		SMS:          "Hi {patientName}! It's time for your regular health checkup. Please schedule a visit at Maybunga Health Center.",
		EmailSubject: "Health Checkup Reminder",
		EmailBody: `<h2 style="color:#2c5aa0;">Health Checkup Reminder</h2>
<p>Dear {patientName},</p>
<p>It's time for your {checkupType} checkup. Regular checkups help us keep you healthy.</p>
<div style="background:#f0f6ff;border-left:4px solid #2c5aa0;padding:15px;margin:20px 0;">
<p><strong>Last checkup:</strong> {lastCheckup}</p>
</div>`,
		ActionLabel: "Book a Checkup",
	},
	models.PrescriptionReady: {
		SMS:          "Hi {patientName}! Your prescription for {medication} is ready for pickup at Maybunga Health Center. Please bring a valid ID.",
		EmailSubject: "Prescription Ready for Pickup",
		EmailBody: `<h2 style="color:#28a745;">Prescription Ready</h2>
<p>Dear {patientName},</p>
<p>Your prescription for <strong>{medication}</strong> is ready for pickup.</p>
<div style="background:#eefaf1;border-left:4px solid #28a745;padding:15px;margin:20px 0;">
<p><strong>Available from:</strong> {availableDate}</p>
</div>
<p>Please bring a valid ID when claiming your medicine.</p>`,
	},
	models.LabResultsReady: {
		EmailSubject: "Laboratory Results Available",
		EmailBody: `<h2 style="color:#2c5aa0;">Laboratory Results Available</h2>
<p>Dear {patientName},</p>
<p>Your {testName} results are now available.</p>
<p>Please visit the health center or log in to the patient portal to review them with your doctor.</p>`,
		ActionLabel: "View Results",
	},
	models.EmergencyAlert: {
		SMS:          "EMERGENCY ALERT: {message} Please contact Maybunga Health Center immediately or go to the nearest hospital.",
		EmailSubject: "🚨 URGENT: Health Alert",
	},
	models.GeneralAnnouncement: {
		SMS:          "{message} - Maybunga Health Center",
		EmailSubject: "Important Announcement - Maybunga Health Center",
		EmailBody: `<h2 style="color:#2c5aa0;">Announcement</h2>
<p>Dear {patientName},</p>
<div style="background:#f0f6ff;border-left:4px solid #2c5aa0;padding:15px;margin:20px 0;">
<p>{message}</p>
</div>`,
	},
}
