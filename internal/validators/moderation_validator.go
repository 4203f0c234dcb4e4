package validators

import (
	"strings"

	"mecfinder/pkg/moderation"
)

type BanRequest struct {
	BanType  string `json:"banType" validate:"omitempty,ban_type"`
	Reason   string `json:"reason" validate:"required,max=500"`
	Duration *int   `json:"duration" validate:"omitempty,min=1,max=3650"`
}

type UnbanRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type UserStatusRequest struct {
	Status string `json:"status" validate:"required,user_status"`
}

type MechanicStatusRequest struct {
	Status string `json:"status" validate:"required,mechanic_status"`
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// ValidateBan normalizes the request and returns the domain form. A missing
// ban type means TEMPORARY; a missing duration on a temporary ban means the
// default of seven days.
func ValidateBan(req *BanRequest) (moderation.BanRequest, ValidationErrors) {
	req.Reason = strings.TrimSpace(req.Reason)
	errors := ValidateStruct(req)

	out := moderation.BanRequest{
		BanType: moderation.BanType(req.BanType),
		Reason:  req.Reason,
	}
	if out.BanType == "" {
		out.BanType = moderation.DefaultBanType
	}
	if out.BanType == moderation.BanTypeTemporary {
		out.Duration = moderation.DefaultDurationDays
		if req.Duration != nil {
			out.Duration = *req.Duration
		}
	}

	return out, errors
}
