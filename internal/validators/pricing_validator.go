package validators

type UpsertPricingRequest struct {
	ServiceID          string   `json:"serviceId" validate:"required,object_id"`
	RegionID           string   `json:"regionId" validate:"required,object_id"`
	BasePrice          *float64 `json:"basePrice" validate:"omitempty,gte=0"`
	GSTPercent         *float64 `json:"gstPercent" validate:"omitempty,percent"`
	PlatformFeePercent *float64 `json:"platformFeePercent" validate:"omitempty,percent"`
	TravelCharge       *float64 `json:"travelCharge" validate:"omitempty,gte=0"`
}

type UpdatePricingRequest struct {
	BasePrice          *float64 `json:"basePrice" validate:"omitempty,gt=0"`
	GSTPercent         *float64 `json:"gstPercent" validate:"omitempty,percent"`
	PlatformFeePercent *float64 `json:"platformFeePercent" validate:"omitempty,percent"`
	TravelCharge       *float64 `json:"travelCharge" validate:"omitempty,gte=0"`
	Status             *string  `json:"status" validate:"omitempty,pricing_status"`
}

type CalculatePricingRequest struct {
	BasePrice          float64  `json:"basePrice" validate:"gte=0"`
	GSTPercent         *float64 `json:"gstPercent" validate:"omitempty,percent"`
	PlatformFeePercent *float64 `json:"platformFeePercent" validate:"omitempty,percent"`
	TravelCharge       *float64 `json:"travelCharge" validate:"omitempty,gte=0"`
}

type PricingListQuery struct {
	ServiceID string `form:"serviceId" json:"serviceId" validate:"omitempty,object_id"`
	RegionID  string `form:"regionId" json:"regionId" validate:"omitempty,object_id"`
	Status    string `form:"status" json:"status" validate:"omitempty,pricing_status"`
}

func ValidateUpsertPricing(req *UpsertPricingRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateUpdatePricing(req *UpdatePricingRequest) ValidationErrors {
	errors := ValidateStruct(req)

	if req.BasePrice == nil && req.GSTPercent == nil && req.PlatformFeePercent == nil &&
		req.TravelCharge == nil && req.Status == nil {
		errors = append(errors, ValidationError{
			Field:   "body",
			Message: "At least one field must be provided",
		})
	}

	return errors
}
