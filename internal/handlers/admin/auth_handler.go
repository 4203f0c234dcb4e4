package admin

import (
	"mecfinder/internal/middleware"
	"mecfinder/internal/services"
	"mecfinder/internal/utils"
	"mecfinder/internal/validators"
	"mecfinder/pkg/logger"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService services.AuthService
	logger      *logger.Logger
}

func NewAuthHandler(authService services.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req validators.AdminLoginRequest
	if !bindJSON(c, &req) {
		return
	}
	if validationFailed(c, validators.ValidateAdminLogin(&req)) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password, actorFrom(c))
	if err != nil {
		respondError(c, h.logger, err, "Admin")
		return
	}

	utils.SuccessResponse(c, "Login successful", gin.H{
		"accessToken":  result.AccessToken,
		"refreshToken": result.RefreshToken,
		"expiresIn":    result.ExpiresIn,
		"admin":        result.Admin,
	})
}

// Refresh exchanges a refresh token for a new pair. The old one is spent.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req validators.RefreshTokenRequest
	if !bindJSON(c, &req) {
		return
	}
	if validationFailed(c, validators.ValidateStruct(&req)) {
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, h.logger, err, "Admin")
		return
	}

	utils.SuccessResponse(c, "Token refreshed", gin.H{
		"accessToken":  result.AccessToken,
		"refreshToken": result.RefreshToken,
		"expiresIn":    result.ExpiresIn,
		"admin":        result.Admin,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.Claims(c)
	if claims == nil {
		utils.UnauthorizedResponse(c, "")
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
		respondError(c, h.logger, err, "Session")
		return
	}

	utils.SuccessResponse(c, "Logged out", nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	adminID, ok := middleware.AdminID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	admin, err := h.authService.Me(c.Request.Context(), adminID)
	if err != nil {
		respondError(c, h.logger, err, "Admin")
		return
	}

	utils.SuccessResponse(c, "", gin.H{"admin": admin.Profile()})
}
