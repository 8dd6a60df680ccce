package main

import (
	"curamind-be/internal/model"
	clinicEvents "curamind-be/pkg/clinic/events"

	"github.com/fatih/color"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// notificationTypes holds one row per clinic event code. Template
// placeholders name keys of the event payload.
func notificationTypes() []model.NotificationType {
	web := datatypes.JSON([]byte(`["web"]`))
	webAndEmail := datatypes.JSON([]byte(`["web", "email"]`))

	return []model.NotificationType{
		{
			Code:        clinicEvents.TriageCompleted,
			DisplayName: "Triage Completed",
			Template:    "Your triage is complete. Result: {flag}, recommended specialty: {specialty}.",
			TargetType:  "SELF",
			Priority:    "MEDIUM",
			Channels:    web,
			IsActive:    true,
		},
		{
			Code:        clinicEvents.ConsultationRequested,
			DisplayName: "New Consultation Request",
			Template:    "{patient_name} has requested a consultation.",
			TargetType:  "SELF", // the doctor named in user_id
			Priority:    "HIGH",
			Channels:    webAndEmail,
			IsActive:    true,
		},
		{
			Code:        clinicEvents.ConsultationResponded,
			DisplayName: "Consultation Response",
			Template:    "Dr. {doctor_name} has {status} your consultation request.",
			TargetType:  "SELF",
			Priority:    "HIGH",
			Channels:    webAndEmail,
			IsActive:    true,
		},
		{
			Code:        clinicEvents.ConsultationMessage,
			DisplayName: "New Message",
			Template:    "{sender_name}: {preview}",
			TargetType:  "SELF",
			Priority:    "MEDIUM",
			Channels:    web,
			IsActive:    true,
		},
		{
			Code:        clinicEvents.ConsultationEnded,
			DisplayName: "Consultation Completed",
			Template:    "Dr. {doctor_name} has completed your consultation. The summary is now available.",
			TargetType:  "SELF",
			Priority:    "MEDIUM",
			Channels:    webAndEmail,
			IsActive:    true,
		},
		{
			Code:        clinicEvents.DoctorRegistered,
			DisplayName: "Doctor Awaiting Verification",
			Template:    "{full_name} ({email}) registered as a doctor and is awaiting verification.",
			TargetType:  "ADMIN",
			Priority:    "HIGH",
			Channels:    webAndEmail,
			IsActive:    true,
		},
		{
			Code:        clinicEvents.DoctorVerified,
			DisplayName: "Account Verified",
			Template:    "Your doctor account ({email}) has been verified. Welcome to CuraMind.",
			TargetType:  "SELF",
			Priority:    "MEDIUM",
			Channels:    web,
			IsActive:    true,
		},
	}
}

// SeedNotificationTypes inserts missing notification types; existing rows keep
// any admin edits.
func SeedNotificationTypes(db *gorm.DB) {
	seeded := 0
	for _, t := range notificationTypes() {
		if err := db.Where("code = ?", t.Code).FirstOrCreate(&t).Error; err != nil {
			color.Red("Error seeding notification type %s: %v", t.Code, err)
			continue
		}
		seeded++
	}
	color.Green("✅ %d notification types seeded.", seeded)
}
