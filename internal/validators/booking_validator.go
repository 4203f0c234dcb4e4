package validators

type BookingStatusRequest struct {
	Status string `json:"status" validate:"required,booking_status"`
	Note   string `json:"note" validate:"omitempty,max=500"`
}
