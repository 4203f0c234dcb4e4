package validators

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	validate.RegisterValidation("object_id", validateObjectID)
	validate.RegisterValidation("phone_number", validatePhoneNumber)
	validate.RegisterValidation("ban_type", oneOf("PERMANENT", "TEMPORARY"))
	validate.RegisterValidation("pricing_status", oneOf("ACTIVE", "INACTIVE"))
	validate.RegisterValidation("catalog_status", oneOf("ACTIVE", "INACTIVE"))
	validate.RegisterValidation("user_status", oneOf("ACTIVE", "BANNED"))
	validate.RegisterValidation("mechanic_status", oneOf("PENDING", "APPROVED", "REJECTED", "SUSPENDED", "BANNED", "ACTIVE"))
	validate.RegisterValidation("booking_status", oneOf("PENDING", "SEARCHING", "ASSIGNED", "ACCEPTED", "EN_ROUTE", "ARRIVED", "IN_PROGRESS", "COMPLETED", "CANCELLED", "EXPIRED"))
	validate.RegisterValidation("ticket_status", oneOf("OPEN", "IN_PROGRESS", "RESOLVED", "CLOSED"))
	validate.RegisterValidation("ticket_priority", oneOf("LOW", "MEDIUM", "HIGH", "URGENT"))
	validate.RegisterValidation("percent", validatePercent)
}

var (
	ErrInvalidObjectID    = errors.New("invalid object ID format")
	ErrInvalidPhoneNumber = errors.New("invalid phone number format")
)

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

// ToMap renders the errors as field -> message for the 400 response body.
func (v ValidationErrors) ToMap() map[string]string {
	out := make(map[string]string, len(v))
	for _, err := range v {
		if _, seen := out[err.Field]; !seen {
			out[err.Field] = err.Message
		}
	}
	return out
}

// ValidateStruct validates a struct and returns detailed errors
func ValidateStruct(s interface{}) ValidationErrors {
	var validationErrors ValidationErrors

	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return ValidationErrors{{Field: "body", Message: err.Error()}}
	}

	for _, fe := range fieldErrors {
		validationErrors = append(validationErrors, ValidationError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Value:   fmt.Sprintf("%v", fe.Value()),
			Message: getErrorMessage(fe),
		})
	}

	return validationErrors
}

func getErrorMessage(err validator.FieldError) string {
	field := err.Field()
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return "Invalid email format"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, err.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, err.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, err.Param())
	case "gte":
		return fmt.Sprintf("%s must not be less than %s", field, err.Param())
	case "percent":
		return fmt.Sprintf("%s must be between 0 and 100", field)
	case "object_id":
		return "Invalid ID format"
	case "phone_number":
		return "Invalid phone number format"
	case "ban_type":
		return "banType must be PERMANENT or TEMPORARY"
	case "pricing_status", "catalog_status":
		return "status must be ACTIVE or INACTIVE"
	case "user_status", "mechanic_status", "booking_status", "ticket_status":
		return fmt.Sprintf("Invalid status %v", err.Value())
	case "ticket_priority":
		return "priority must be LOW, MEDIUM, HIGH or URGENT"
	default:
		return fmt.Sprintf("Validation failed for %s", field)
	}
}

func validateObjectID(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Let required tag handle empty values
	}
	_, err := primitive.ObjectIDFromHex(value)
	return err == nil
}

var phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{9,14}$`)

func validatePhoneNumber(fl validator.FieldLevel) bool {
	phone := fl.Field().String()
	if phone == "" {
		return true
	}
	return phoneRegex.MatchString(strings.NewReplacer(" ", "", "-", "").Replace(phone))
}

func validatePercent(fl validator.FieldLevel) bool {
	v := fl.Field().Float()
	return v >= 0 && v <= 100
}

func oneOf(values ...string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			return true
		}
		for _, allowed := range values {
			if value == allowed {
				return true
			}
		}
		return false
	}
}

func IsValidObjectID(id string) bool {
	_, err := primitive.ObjectIDFromHex(id)
	return err == nil
}

var htmlRegex = regexp.MustCompile(`<[^>]*>`)

func SanitizeInput(input string) string {
	return strings.TrimSpace(htmlRegex.ReplaceAllString(input, ""))
}
