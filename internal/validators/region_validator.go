package validators

type CreateRegionRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=80"`
	State   string `json:"state" validate:"required,min=2,max=80"`
	Country string `json:"country" validate:"omitempty,min=2,max=80"`
	Slug    string `json:"slug" validate:"omitempty,max=120"`
	Status  string `json:"status" validate:"omitempty,catalog_status"`
}

type UpdateRegionRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=2,max=80"`
	State   *string `json:"state" validate:"omitempty,min=2,max=80"`
	Country *string `json:"country" validate:"omitempty,min=2,max=80"`
	Slug    *string `json:"slug" validate:"omitempty,max=120"`
	Status  *string `json:"status" validate:"omitempty,catalog_status"`
}

func ValidateCreateRegion(req *CreateRegionRequest) ValidationErrors {
	req.Name = SanitizeInput(req.Name)
	req.State = SanitizeInput(req.State)
	if req.Country == "" {
		req.Country = "India"
	}
	return ValidateStruct(req)
}
