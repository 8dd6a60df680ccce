package mapper

import (
	"curamind-be/internal/entity"
	"curamind-be/internal/model"
)

type ConsultationMapper struct{}

func NewConsultationMapper() *ConsultationMapper {
	return &ConsultationMapper{}
}

func (m *ConsultationMapper) ToEntity(c *model.Consultation) *entity.Consultation {
	if c == nil {
		return nil
	}
	return &entity.Consultation{
		Id:               c.Id,
		PatientAccountId: c.PatientAccountId,
		DoctorId:         c.DoctorId,
		TriageSessionId:  c.TriageSessionId,
		Status:           entity.ConsultationStatus(c.Status),
		Summary:          c.Summary,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func (m *ConsultationMapper) ToModel(c *entity.Consultation) *model.Consultation {
	if c == nil {
		return nil
	}
	return &model.Consultation{
		Id:               c.Id,
		PatientAccountId: c.PatientAccountId,
		DoctorId:         c.DoctorId,
		TriageSessionId:  c.TriageSessionId,
		Status:           string(c.Status),
		Summary:          c.Summary,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func (m *ConsultationMapper) ToEntities(models []*model.Consultation) []*entity.Consultation {
	out := make([]*entity.Consultation, 0, len(models))
	for _, c := range models {
		out = append(out, m.ToEntity(c))
	}
	return out
}

func (m *ConsultationMapper) MessageToEntity(msg *model.ConsultationMessage) *entity.ConsultationMessage {
	if msg == nil {
		return nil
	}
	return &entity.ConsultationMessage{
		Id:             msg.Id,
		ConsultationId: msg.ConsultationId,
		SenderId:       msg.SenderId,
		Content:        msg.Content,
		CreatedAt:      msg.CreatedAt,
	}
}

func (m *ConsultationMapper) MessageToModel(msg *entity.ConsultationMessage) *model.ConsultationMessage {
	if msg == nil {
		return nil
	}
	return &model.ConsultationMessage{
		Id:             msg.Id,
		ConsultationId: msg.ConsultationId,
		SenderId:       msg.SenderId,
		Content:        msg.Content,
		CreatedAt:      msg.CreatedAt,
	}
}

func (m *ConsultationMapper) MessagesToEntities(models []*model.ConsultationMessage) []*entity.ConsultationMessage {
	out := make([]*entity.ConsultationMessage, 0, len(models))
	for _, msg := range models {
		out = append(out, m.MessageToEntity(msg))
	}
	return out
}
