package mailer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTemporaryPasswordMail(t *testing.T) {
	m := TemporaryPasswordMail("p@example.com", "Asha <Rai>", "Xy9-abc", "http://app/login")

	assert.Equal(t, "p@example.com", m.To)
	assert.Contains(t, m.Body, "Xy9-abc")
	assert.Contains(t, m.Body, "Asha &lt;Rai&gt;")
	assert.Contains(t, m.Body, "http://app/login")
}

func TestResetOtpMail(t *testing.T) {
	m := ResetOtpMail("p@example.com", "042913", 2*time.Minute)

	assert.Contains(t, m.Body, "042913")
	assert.Contains(t, m.Body, "expire in 2 minutes")
}

func TestDoctorRejectionMail(t *testing.T) {
	withNote := DoctorRejectionMail("d@example.com", "Sharma", "License unreadable", "Upload a clearer scan")
	assert.Contains(t, withNote.Body, "License unreadable")
	assert.Contains(t, withNote.Body, "Upload a clearer scan")

	withoutNote := DoctorRejectionMail("d@example.com", "Sharma", "License unreadable", "")
	assert.NotContains(t, withoutNote.Body, "Note from the reviewer")
}
