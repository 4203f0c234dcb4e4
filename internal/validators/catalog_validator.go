package validators

type CreateCategoryRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=60"`
	Description  string `json:"description" validate:"omitempty,max=500"`
	Icon         string `json:"icon" validate:"omitempty,max=500"`
	DisplayOrder int    `json:"displayOrder" validate:"gte=0"`
	Status       string `json:"status" validate:"omitempty,catalog_status"`
}

type UpdateCategoryRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=2,max=60"`
	Description  *string `json:"description" validate:"omitempty,max=500"`
	Icon         *string `json:"icon" validate:"omitempty,max=500"`
	DisplayOrder *int    `json:"displayOrder" validate:"omitempty,gte=0"`
	Status       *string `json:"status" validate:"omitempty,catalog_status"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required,catalog_status"`
}

type CreateServiceRequest struct {
	CategoryID    string   `json:"categoryId" validate:"required,object_id"`
	Name          string   `json:"name" validate:"required,min=2,max=100"`
	Description   string   `json:"description" validate:"omitempty,max=1000"`
	BasePrice     float64  `json:"basePrice" validate:"gt=0"`
	EstimatedTime int      `json:"estimatedTime" validate:"gte=0"`
	Icon          string   `json:"icon" validate:"omitempty,max=500"`
	VehicleTypes  []string `json:"vehicleTypes" validate:"omitempty,dive,min=2,max=30"`
	Status        string   `json:"status" validate:"omitempty,catalog_status"`
}

type UpdateServiceRequest struct {
	CategoryID    *string  `json:"categoryId" validate:"omitempty,object_id"`
	Name          *string  `json:"name" validate:"omitempty,min=2,max=100"`
	Description   *string  `json:"description" validate:"omitempty,max=1000"`
	BasePrice     *float64 `json:"basePrice" validate:"omitempty,gt=0"`
	EstimatedTime *int     `json:"estimatedTime" validate:"omitempty,gte=0"`
	Icon          *string  `json:"icon" validate:"omitempty,max=500"`
	VehicleTypes  []string `json:"vehicleTypes" validate:"omitempty,dive,min=2,max=30"`
	Status        *string  `json:"status" validate:"omitempty,catalog_status"`
}

func ValidateCreateService(req *CreateServiceRequest) ValidationErrors {
	req.Name = SanitizeInput(req.Name)
	return ValidateStruct(req)
}

func ValidateCreateCategory(req *CreateCategoryRequest) ValidationErrors {
	req.Name = SanitizeInput(req.Name)
	return ValidateStruct(req)
}
