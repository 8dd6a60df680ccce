package controller

import (
	"context"
	"testing"
	"time"

	"curamind-be/internal/dto"
	"curamind-be/internal/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubConsultationService lets one patient and one doctor through and
// rejects everyone else the way the real service does.
type stubConsultationService struct {
	patient uuid.UUID
	doctor  uuid.UUID
	sent    []string
	summary string
}

func (s *stubConsultationService) party(accountId uuid.UUID) error {
	if accountId != s.patient && accountId != s.doctor {
		return apperror.Forbidden("not a participant of this consultation")
	}
	return nil
}

func (s *stubConsultationService) Request(ctx context.Context, patientAccountId uuid.UUID, req *dto.RequestConsultationRequest) (*dto.ConsultationResponse, error) {
	return &dto.ConsultationResponse{Id: uuid.New(), Status: "pending", DoctorId: req.DoctorId}, nil
}

func (s *stubConsultationService) PatientConsultations(ctx context.Context, patientAccountId uuid.UUID) ([]dto.ConsultationResponse, error) {
	return []dto.ConsultationResponse{}, nil
}

func (s *stubConsultationService) PatientStatus(ctx context.Context, patientAccountId, id uuid.UUID) (*dto.ConsultationResponse, error) {
	return &dto.ConsultationResponse{Id: id, Status: "pending"}, nil
}

func (s *stubConsultationService) DoctorQueue(ctx context.Context, doctorAccountId uuid.UUID, status string) ([]dto.ConsultationResponse, error) {
	return []dto.ConsultationResponse{{Id: uuid.New(), Status: status}}, nil
}

func (s *stubConsultationService) DoctorDetail(ctx context.Context, doctorAccountId, id uuid.UUID) (*dto.ConsultationDetailResponse, error) {
	return &dto.ConsultationDetailResponse{ConsultationResponse: dto.ConsultationResponse{Id: id}}, nil
}

func (s *stubConsultationService) Respond(ctx context.Context, doctorAccountId, id uuid.UUID, req *dto.RespondConsultationRequest) (*dto.ConsultationResponse, error) {
	return &dto.ConsultationResponse{Id: id, Status: req.Status}, nil
}

func (s *stubConsultationService) Messages(ctx context.Context, accountId, id uuid.UUID) ([]dto.MessageResponse, error) {
	if err := s.party(accountId); err != nil {
		return nil, err
	}
	return []dto.MessageResponse{}, nil
}

func (s *stubConsultationService) SendMessage(ctx context.Context, accountId, id uuid.UUID, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	if err := s.party(accountId); err != nil {
		return nil, err
	}
	s.sent = append(s.sent, req.Content)
	return &dto.MessageResponse{Id: uuid.New(), SenderId: accountId, IsMine: true, Content: req.Content, CreatedAt: time.Now()}, nil
}

func (s *stubConsultationService) End(ctx context.Context, doctorAccountId, id uuid.UUID, req *dto.EndConsultationRequest) (*dto.ConsultationResponse, error) {
	if doctorAccountId != s.doctor {
		return nil, apperror.NotFound("consultation not found")
	}
	s.summary = req.Summary
	return &dto.ConsultationResponse{Id: id, Status: "completed", Summary: req.Summary}, nil
}

func TestConsultationController_Messaging(t *testing.T) {
	svc := &stubConsultationService{patient: uuid.New(), doctor: uuid.New()}
	app := newApp(NewConsultationController(svc))
	path := "/api/consultations/" + uuid.NewString() + "/messages"

	code, body := call(t, app, "POST", path, tokenFor(t, svc.patient, "patient"), `{"content":"It still hurts"}`)
	require.Equal(t, 201, code)
	assert.Equal(t, true, body["data"].(map[string]interface{})["is_mine"])
	assert.Equal(t, []string{"It still hurts"}, svc.sent)

	code, _ = call(t, app, "GET", path, tokenFor(t, svc.doctor, "doctor"), "")
	assert.Equal(t, 200, code)

	code, body = call(t, app, "GET", path, tokenFor(t, uuid.New(), "patient"), "")
	assert.Equal(t, 403, code)
	assert.Equal(t, false, body["success"])

	code, _ = call(t, app, "POST", path, tokenFor(t, svc.patient, "patient"), `{"content":""}`)
	assert.Equal(t, 400, code)

	code, _ = call(t, app, "GET", "/api/consultations/not-a-uuid/messages", tokenFor(t, svc.patient, "patient"), "")
	assert.Equal(t, 400, code)
}

func TestConsultationController_OnlyDoctorsEnd(t *testing.T) {
	svc := &stubConsultationService{patient: uuid.New(), doctor: uuid.New()}
	app := newApp(NewConsultationController(svc))
	path := "/api/consultations/" + uuid.NewString() + "/end"

	code, _ := call(t, app, "POST", path, tokenFor(t, svc.patient, "patient"), `{"summary":"done"}`)
	assert.Equal(t, 403, code)
	assert.Empty(t, svc.summary)

	code, body := call(t, app, "POST", path, tokenFor(t, svc.doctor, "doctor"), `{"summary":"Sprain, rest for two weeks"}`)
	require.Equal(t, 200, code)
	assert.Equal(t, "completed", body["data"].(map[string]interface{})["status"])
	assert.Equal(t, "Sprain, rest for two weeks", svc.summary)
}

func TestDoctorController_QueueStatusFilter(t *testing.T) {
	svc := &stubConsultationService{doctor: uuid.New()}
	app := newApp(NewDoctorController(nil, svc))
	token := tokenFor(t, svc.doctor, "doctor")

	code, _ := call(t, app, "GET", "/api/doctor/consultations?status=accepted", token, "")
	assert.Equal(t, 200, code)

	code, _ = call(t, app, "GET", "/api/doctor/consultations?status=archived", token, "")
	assert.Equal(t, 400, code)

	code, body := call(t, app, "POST", "/api/doctor/consultations/"+uuid.NewString()+"/respond", token, `{"status":"accepted"}`)
	assert.Equal(t, 200, code)
	assert.Equal(t, "Consultation accepted", body["message"])

	code, _ = call(t, app, "POST", "/api/doctor/consultations/"+uuid.NewString()+"/respond", token, `{"status":"maybe"}`)
	assert.Equal(t, 400, code)

	code, _ = call(t, app, "GET", "/api/doctor/consultations", tokenFor(t, uuid.New(), "patient"), "")
	assert.Equal(t, 403, code)
}
