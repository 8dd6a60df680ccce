package dto

type NotificationPreferenceRequest struct {
	MutedTypes []string `json:"muted_types" validate:"dive,required,max=50"`
}

type NotificationPreferenceResponse struct {
	MutedTypes []string `json:"muted_types"`
}
