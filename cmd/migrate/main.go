package main

import (
	"log"

	"curamind-be/internal/config"
	"curamind-be/internal/model"
	"curamind-be/pkg/database"
)

func main() {
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Step 1: Setting up extensions...")
	// gen_random_uuid() defaults depend on pgcrypto on older Postgres.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Printf("Warn: Failed to create pgcrypto extension: %v. Continuing...", err)
	}

	models := []interface{}{
		&model.Account{},
		&model.PasswordResetOtp{},
		&model.Patient{},
		&model.Doctor{},
		&model.TriageSession{},
		&model.Consultation{},
		&model.ConsultationMessage{},
		&model.NotificationType{},
		&model.Notification{},
		&model.NotificationPreference{},
	}

	log.Printf("Step 2: Running AutoMigrate for %d tables...", len(models))
	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("Step 3: Creating indexes...")
	postMigrationSQL := []string{
		// At most one pending request per patient and doctor pair.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_consultations_pending_pair
		 ON consultations (patient_account_id, doctor_id) WHERE status = 'pending';`,
		// At most one open triage session per subject.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_triage_sessions_open_subject
		 ON triage_sessions (subject_id) WHERE flag IS NULL;`,
	}
	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed.")
}
