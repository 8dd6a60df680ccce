package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"curamind-be/internal/dto"
	"curamind-be/internal/entity"
	"curamind-be/internal/pkg/apperror"
	"curamind-be/internal/pkg/logger"
	"curamind-be/pkg/triage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type consultationFixture struct {
	store  *memStore
	events *recordingEvents
	svc    *consultationService
}

func newConsultationFixture() *consultationFixture {
	store := newMemStore()
	events := &recordingEvents{}
	svc := NewConsultationService(store, events, logger.NewNopLogger()).(*consultationService)
	svc.now = func() time.Time { return fixedNow }
	return &consultationFixture{store: store, events: events, svc: svc}
}

func (f *consultationFixture) addPatient(name string, age int) uuid.UUID {
	accountId := uuid.New()
	f.store.accounts[accountId] = entity.Account{Id: accountId, Email: strings.ToLower(name) + "@example.com", Role: entity.AccountRolePatient, IsVerified: true}
	id := uuid.New()
	f.store.patients[id] = entity.Patient{
		Id:          id,
		AccountId:   accountId,
		FullName:    name,
		DateOfBirth: fixedNow.AddDate(-age, 0, -1),
	}
	return accountId
}

// addDoctor returns the doctor's account id and profile id.
func (f *consultationFixture) addDoctor(name string, verified, available bool) (uuid.UUID, uuid.UUID) {
	accountId := uuid.New()
	f.store.accounts[accountId] = entity.Account{Id: accountId, Email: strings.ToLower(name) + "@example.com", Role: entity.AccountRoleDoctor, IsVerified: verified}
	id := uuid.New()
	f.store.doctors[id] = entity.Doctor{
		Id:          id,
		AccountId:   accountId,
		FullName:    name,
		Specialty:   "Orthopedics",
		IsAvailable: available,
	}
	return accountId, id
}

func (f *consultationFixture) addSession(subject uuid.UUID, flag triage.Flag, createdAt time.Time) uuid.UUID {
	id := uuid.New()
	age := 30.0
	answers := triage.Answers{Age: &age}
	answers.FillRemaining()
	note := triage.GenerateNote(answers, flag)
	f.store.sessions[id] = entity.TriageSession{
		Id:        id,
		SubjectId: subject,
		Answers:   answers,
		Flag:      &flag,
		Note:      &note,
		CreatedAt: createdAt,
	}
	return id
}

func TestRequest_AttachesLatestCompletedTriage(t *testing.T) {
	f := newConsultationFixture()
	ctx := context.Background()
	patient := f.addPatient("Asha", 30)
	doctorAccount, doctorId := f.addDoctor("Dr Sharma", true, true)
	f.addSession(patient, triage.FlagGreen, fixedNow.Add(-2*time.Hour))
	latest := f.addSession(patient, triage.FlagRed, fixedNow.Add(-time.Hour))

	resp, err := f.svc.Request(ctx, patient, &dto.RequestConsultationRequest{DoctorId: doctorId})
	require.NoError(t, err)
	assert.Equal(t, string(entity.ConsultationStatusPending), resp.Status)
	require.NotNil(t, resp.TriageSessionId)
	assert.Equal(t, latest, *resp.TriageSessionId)
	assert.Equal(t, triage.FlagRed, resp.Flag)

	require.Equal(t, []string{"CONSULTATION_REQUESTED"}, f.events.codes())
	assert.Equal(t, doctorAccount, f.events.events[0].args[2])

	_, err = f.svc.Request(ctx, patient, &dto.RequestConsultationRequest{DoctorId: doctorId})
	assert.True(t, apperror.Is(err, apperror.KindConflict), "one pending request per doctor")
}

func TestRequest_RejectsUnusableDoctorsAndForeignTriage(t *testing.T) {
	f := newConsultationFixture()
	ctx := context.Background()
	patient := f.addPatient("Asha", 30)
	other := f.addPatient("Bina", 40)
	_, unverified := f.addDoctor("Dr Unverified", false, true)
	_, offline := f.addDoctor("Dr Offline", true, false)
	_, online := f.addDoctor("Dr Online", true, true)
	foreign := f.addSession(other, triage.FlagYellow, fixedNow)

	_, err := f.svc.Request(ctx, patient, &dto.RequestConsultationRequest{DoctorId: unverified})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = f.svc.Request(ctx, patient, &dto.RequestConsultationRequest{DoctorId: offline})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	_, err = f.svc.Request(ctx, patient, &dto.RequestConsultationRequest{DoctorId: online, TriageId: &foreign})
	assert.True(t, apperror.Is(err, apperror.KindInvalidInput))

	resp, err := f.svc.Request(ctx, patient, &dto.RequestConsultationRequest{DoctorId: online})
	require.NoError(t, err)
	assert.Nil(t, resp.TriageSessionId, "no completed triage to attach")
	assert.Empty(t, f.store.messages)
}

func TestConsultationLifecycle(t *testing.T) {
	f := newConsultationFixture()
	ctx := context.Background()
	patient := f.addPatient("Asha", 30)
	doctorAccount, doctorId := f.addDoctor("Dr Sharma", true, true)
	f.addSession(patient, triage.FlagYellow, fixedNow)

	req, err := f.svc.Request(ctx, patient, &dto.RequestConsultationRequest{DoctorId: doctorId})
	require.NoError(t, err)

	queue, err := f.svc.DoctorQueue(ctx, doctorAccount, "pending")
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, "Asha", queue[0].PatientName)
	assert.Equal(t, triage.FlagYellow, queue[0].Flag)

	detail, err := f.svc.DoctorDetail(ctx, doctorAccount, req.Id)
	require.NoError(t, err)
	assert.Equal(t, 30, detail.PatientAge)
	require.NotNil(t, detail.SoapNote)
	assert.Equal(t, 30.0, detail.Answers["V0_AGE"])

	_, err = f.svc.SendMessage(ctx, patient, req.Id, &dto.SendMessageRequest{Content: "hello?"})
	assert.True(t, apperror.Is(err, apperror.KindConflict), "pending consultations are closed for messages")

	_, err = f.svc.End(ctx, doctorAccount, req.Id, &dto.EndConsultationRequest{Summary: "too early"})
	assert.True(t, apperror.Is(err, apperror.KindConflict))

	accepted, err := f.svc.Respond(ctx, doctorAccount, req.Id, &dto.RespondConsultationRequest{Status: "accepted"})
	require.NoError(t, err)
	assert.Equal(t, "accepted", accepted.Status)

	_, err = f.svc.Respond(ctx, doctorAccount, req.Id, &dto.RespondConsultationRequest{Status: "rejected"})
	assert.True(t, apperror.Is(err, apperror.KindConflict), "responses are final")

	sent, err := f.svc.SendMessage(ctx, patient, req.Id, &dto.SendMessageRequest{Content: "my ankle is swollen"})
	require.NoError(t, err)
	assert.True(t, sent.IsMine)
	_, err = f.svc.SendMessage(ctx, doctorAccount, req.Id, &dto.SendMessageRequest{Content: "keep it elevated"})
	require.NoError(t, err)

	thread, err := f.svc.Messages(ctx, doctorAccount, req.Id)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.False(t, thread[0].IsMine)
	assert.True(t, thread[1].IsMine)

	ended, err := f.svc.End(ctx, doctorAccount, req.Id, &dto.EndConsultationRequest{Summary: "RICE for a week"})
	require.NoError(t, err)
	assert.Equal(t, "completed", ended.Status)
	assert.Equal(t, "RICE for a week", ended.Summary)

	status, err := f.svc.PatientStatus(ctx, patient, req.Id)
	require.NoError(t, err)
	assert.Equal(t, "completed", status.Status)
	assert.Equal(t, "Dr Sharma", status.DoctorName)

	assert.Equal(t, []string{
		"CONSULTATION_REQUESTED",
		"CONSULTATION_RESPONDED",
		"CONSULTATION_MESSAGE",
		"CONSULTATION_MESSAGE",
		"CONSULTATION_ENDED",
	}, f.events.codes())
	assert.Equal(t, doctorAccount, f.events.events[2].args[2], "patient messages notify the doctor")
	assert.Equal(t, patient, f.events.events[3].args[2], "doctor messages notify the patient")
}

func TestConsultation_OutsidersAreKeptOut(t *testing.T) {
	f := newConsultationFixture()
	ctx := context.Background()
	patient := f.addPatient("Asha", 30)
	stranger := f.addPatient("Bina", 30)
	_, doctorId := f.addDoctor("Dr Sharma", true, true)
	otherDoctor, _ := f.addDoctor("Dr Other", true, true)

	req, err := f.svc.Request(ctx, patient, &dto.RequestConsultationRequest{DoctorId: doctorId})
	require.NoError(t, err)

	_, err = f.svc.Messages(ctx, stranger, req.Id)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))

	_, err = f.svc.PatientStatus(ctx, stranger, req.Id)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = f.svc.Respond(ctx, otherDoctor, req.Id, &dto.RespondConsultationRequest{Status: "accepted"})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestPreviewTruncatesLongMessages(t *testing.T) {
	long := strings.Repeat("é", messagePreviewLength+10)
	p := preview(long)
	assert.True(t, strings.HasSuffix(p, "..."))
	assert.Equal(t, messagePreviewLength+3, len([]rune(p)))
	assert.Equal(t, "short", preview("short"))
}
