package validators

import "strings"

type CreateSupportQueryRequest struct {
	UserID    string `json:"userId" validate:"required,object_id"`
	BookingID string `json:"bookingId" validate:"omitempty,object_id"`
	Subject   string `json:"subject" validate:"required,min=3,max=200"`
	Message   string `json:"message" validate:"required,min=3,max=5000"`
	Category  string `json:"category" validate:"omitempty,max=60"`
	Priority  string `json:"priority" validate:"omitempty,ticket_priority"`
}

type SupportStatusRequest struct {
	Status     string `json:"status" validate:"required,ticket_status"`
	Resolution string `json:"resolution" validate:"omitempty,max=5000"`
}

type AssignSupportRequest struct {
	AssignedTo string `json:"assignedTo" validate:"required,object_id"`
}

func ValidateCreateSupportQuery(req *CreateSupportQueryRequest) ValidationErrors {
	req.Subject = SanitizeInput(req.Subject)
	req.Message = strings.TrimSpace(req.Message)
	if req.Category == "" {
		req.Category = "GENERAL"
	}
	if req.Priority == "" {
		req.Priority = "MEDIUM"
	}
	return ValidateStruct(req)
}
