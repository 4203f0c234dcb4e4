package admin

import (
	"errors"
	"io"
	"strconv"

	"mecfinder/internal/middleware"
	"mecfinder/internal/services"
	"mecfinder/internal/utils"
	"mecfinder/internal/validators"
	"mecfinder/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// actorFrom builds the audit identity of the calling admin.
func actorFrom(c *gin.Context) services.Actor {
	adminID, _ := middleware.AdminID(c)
	return services.Actor{
		AdminID:   adminID,
		Role:      c.GetString(middleware.ContextAdminRole),
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		RequestID: c.GetString(middleware.ContextRequestID),
	}
}

// objectIDParam parses a path parameter and writes the 400 itself on failure.
func objectIDParam(c *gin.Context, name, resource string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+resource+" ID")
		return primitive.NilObjectID, false
	}
	return id, true
}

func optionalObjectID(value string) (*primitive.ObjectID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func optionalBool(value string) (*bool, error) {
	if value == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// bindJSON decodes the body and writes the 400 itself on failure.
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidBody)
		return false
	}
	return true
}

// bindOptionalJSON accepts an empty body, including a chunked one with no
// declared length.
func bindOptionalJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil && !errors.Is(err, io.EOF) {
		utils.BadRequestResponse(c, utils.ErrInvalidBody)
		return false
	}
	return true
}

func validationFailed(c *gin.Context, errs validators.ValidationErrors) bool {
	if len(errs) == 0 {
		return false
	}
	utils.ValidationErrorResponse(c, errs.ToMap())
	return true
}

// respondError maps a service error onto its HTTP status. Anything that is
// not a known sentinel is logged and hidden behind a 500.
func respondError(c *gin.Context, log *logger.Logger, err error, resource string) {
	var fieldErr *services.FieldError

	switch {
	case errors.As(err, &fieldErr):
		utils.ValidationErrorResponse(c, map[string]string{fieldErr.Field: fieldErr.Message})
	case errors.Is(err, services.ErrValidation):
		utils.BadRequestResponse(c, err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, resource)
	case errors.Is(err, services.ErrConflict):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		utils.UnauthorizedResponse(c, "Invalid credentials")
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c)
	case errors.Is(err, services.ErrTooManyAttempts):
		utils.TooManyRequestsResponse(c)
	case errors.Is(err, services.ErrUpstream):
		utils.BadGatewayResponse(c, err.Error())
	default:
		log.WithContext(c.Request.Context()).WithError(err).WithField("path", c.FullPath()).Error("Request failed")
		utils.InternalServerErrorResponse(c)
	}
}
