package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mecfinder/internal/middleware"
	"mecfinder/internal/models"
	"mecfinder/internal/services"
	"mecfinder/internal/utils"
	"mecfinder/internal/validators"
	"mecfinder/pkg/logger"
	"mecfinder/pkg/moderation"
	"mecfinder/pkg/pricing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var testAdminID = primitive.NewObjectID()

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter stands in for AuthRequired: it marks every request as coming
// from an ADMIN.
func newTestRouter() *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextAdminID, testAdminID.Hex())
		c.Set(middleware.ContextAdminRole, string(models.AdminRoleAdmin))
		c.Set(middleware.ContextRequestID, "req-1")
		c.Next()
	})
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func errorDetails(t *testing.T, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	apiErr, ok := body["error"].(map[string]interface{})
	require.True(t, ok, "error object missing: %v", body)
	details, _ := apiErr["details"].(map[string]interface{})
	return details
}

type stubPricingService struct {
	services.PricingService

	upsertReq *validators.UpsertPricingRequest
	upsertErr error
	filter    models.PricingFilter
	actor     services.Actor
}

func (s *stubPricingService) Upsert(_ context.Context, actor services.Actor, req *validators.UpsertPricingRequest) (*models.Pricing, error) {
	s.actor = actor
	s.upsertReq = req
	if s.upsertErr != nil {
		return nil, s.upsertErr
	}
	return &models.Pricing{ID: primitive.NewObjectID(), BasePrice: 500, TotalPrice: 803, Status: models.PricingStatusActive}, nil
}

func (s *stubPricingService) List(_ context.Context, filter models.PricingFilter) ([]*models.Pricing, error) {
	s.filter = filter
	return []*models.Pricing{{ID: primitive.NewObjectID(), TotalPrice: 803}}, nil
}

func (s *stubPricingService) Calculate(req *validators.CalculatePricingRequest) (*pricing.Breakdown, error) {
	if req.BasePrice == 0 {
		return nil, &services.FieldError{Field: "basePrice", Message: "must be greater than 0"}
	}
	return &pricing.Breakdown{BasePrice: req.BasePrice, TotalPrice: 1149}, nil
}

func (s *stubPricingService) Export(_ context.Context, filter models.PricingFilter) ([]byte, error) {
	s.filter = filter
	return []byte("PK-xlsx"), nil
}

func pricingRouter(svc services.PricingService) *gin.Engine {
	h := NewPricingHandler(svc, logger.NewNop())
	r := newTestRouter()
	r.POST("/api/pricing", h.Upsert)
	r.GET("/api/pricing", h.List)
	r.GET("/api/pricing/export", h.Export)
	r.GET("/api/pricing/region/:regionId", h.ListByRegion)
	r.POST("/api/pricing/calculate", h.Calculate)
	r.DELETE("/api/pricing/:id", h.Delete)
	return r
}

func TestPricingHandler_Upsert(t *testing.T) {
	serviceID, regionID := primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex()

	tests := []struct {
		name       string
		body       interface{}
		serviceErr error
		wantStatus int
		wantField  string
	}{
		{
			name:       "saved",
			body:       gin.H{"serviceId": serviceID, "regionId": regionID, "basePrice": 500},
			wantStatus: http.StatusOK,
		},
		{
			name:       "malformed json",
			body:       "{",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing region",
			body:       gin.H{"serviceId": serviceID},
			wantStatus: http.StatusBadRequest,
			wantField:  "regionId",
		},
		{
			name:       "gst out of range",
			body:       gin.H{"serviceId": serviceID, "regionId": regionID, "gstPercent": 150},
			wantStatus: http.StatusBadRequest,
			wantField:  "gstPercent",
		},
		{
			name:       "unknown service",
			body:       gin.H{"serviceId": serviceID, "regionId": regionID},
			serviceErr: fmt.Errorf("service %w", services.ErrNotFound),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "domain validation",
			body:       gin.H{"serviceId": serviceID, "regionId": regionID},
			serviceErr: &services.FieldError{Field: "basePrice", Message: "basePrice must be greater than 0"},
			wantStatus: http.StatusBadRequest,
			wantField:  "basePrice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubPricingService{upsertErr: tt.serviceErr}
			w, body := doJSON(t, pricingRouter(svc), http.MethodPost, "/api/pricing", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantField != "" {
				assert.Contains(t, errorDetails(t, body), tt.wantField)
			}
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, true, body["success"])
				record := body["pricing"].(map[string]interface{})
				assert.Equal(t, float64(803), record["totalPrice"])
				assert.Equal(t, testAdminID, svc.actor.AdminID)
				assert.Equal(t, "req-1", svc.actor.RequestID)
			}
		})
	}
}

func TestPricingHandler_ListFilters(t *testing.T) {
	regionID := primitive.NewObjectID()
	svc := &stubPricingService{}
	r := pricingRouter(svc)

	w, body := doJSON(t, r, http.MethodGet, "/api/pricing?regionId="+regionID.Hex()+"&status=ACTIVE", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["pricing"], 1)
	require.NotNil(t, svc.filter.RegionID)
	assert.Equal(t, regionID, *svc.filter.RegionID)
	assert.Nil(t, svc.filter.ServiceID)
	assert.Equal(t, models.PricingStatusActive, svc.filter.Status)

	w, _ = doJSON(t, r, http.MethodGet, "/api/pricing/region/"+regionID.Hex(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, regionID, *svc.filter.RegionID)

	w, _ = doJSON(t, r, http.MethodGet, "/api/pricing?status=DRAFT", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, http.MethodDelete, "/api/pricing/not-an-id", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPricingHandler_Calculate(t *testing.T) {
	r := pricingRouter(&stubPricingService{})

	w, body := doJSON(t, r, http.MethodPost, "/api/pricing/calculate", gin.H{"basePrice": 999})
	require.Equal(t, http.StatusOK, w.Code)
	breakdown := body["breakdown"].(map[string]interface{})
	assert.Equal(t, float64(1149), breakdown["totalPrice"])

	w, body = doJSON(t, r, http.MethodPost, "/api/pricing/calculate", gin.H{"basePrice": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorDetails(t, body), "basePrice")
}

func TestPricingHandler_Export(t *testing.T) {
	r := pricingRouter(&stubPricingService{})

	req := httptest.NewRequest(http.MethodGet, "/api/pricing/export", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=\"pricing-")
	assert.Equal(t, "PK-xlsx", w.Body.String())
}

type stubModerationService struct {
	services.ModerationService

	banReq   moderation.BanRequest
	unbanReq moderation.UnbanRequest
	banErr   error
}

func (s *stubModerationService) BanUser(_ context.Context, _ services.Actor, id primitive.ObjectID, req moderation.BanRequest) (*models.User, error) {
	s.banReq = req
	if s.banErr != nil {
		return nil, s.banErr
	}
	return &models.User{ID: id, Status: models.UserStatusBanned}, nil
}

func (s *stubModerationService) UnbanUser(_ context.Context, _ services.Actor, id primitive.ObjectID, req moderation.UnbanRequest) (*models.User, error) {
	s.unbanReq = req
	return &models.User{ID: id, Status: models.UserStatusActive}, nil
}

func (s *stubModerationService) ListMechanics(_ context.Context, filter models.MechanicFilter, params *utils.PaginationParams) ([]*models.Mechanic, int64, error) {
	if filter.IsOnline == nil || !*filter.IsOnline {
		return nil, 0, errors.New("isOnline filter not passed through")
	}
	return []*models.Mechanic{{ID: primitive.NewObjectID()}}, 21, nil
}

func moderationRouter(svc services.ModerationService) *gin.Engine {
	h := NewModerationHandler(svc, logger.NewNop())
	r := newTestRouter()
	r.POST("/api/admin/users/:id/ban", h.BanUser)
	r.POST("/api/admin/users/:id/unban", h.UnbanUser)
	r.GET("/api/admin/mechanics", h.ListMechanics)
	return r
}

func TestModerationHandler_BanUser(t *testing.T) {
	path := "/api/admin/users/" + primitive.NewObjectID().Hex() + "/ban"

	tests := []struct {
		name       string
		body       interface{}
		serviceErr error
		wantStatus int
		wantReq    moderation.BanRequest
	}{
		{
			name:       "defaults to seven day temporary ban",
			body:       gin.H{"reason": "  abusive language  "},
			wantStatus: http.StatusOK,
			wantReq:    moderation.BanRequest{BanType: moderation.BanTypeTemporary, Reason: "abusive language", Duration: 7},
		},
		{
			name:       "permanent ban drops duration",
			body:       gin.H{"banType": "PERMANENT", "reason": "fraud", "duration": 30},
			wantStatus: http.StatusOK,
			wantReq:    moderation.BanRequest{BanType: moderation.BanTypePermanent, Reason: "fraud"},
		},
		{
			name:       "empty reason",
			body:       gin.H{"banType": "TEMPORARY", "reason": "   ", "duration": 3},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "zero duration",
			body:       gin.H{"banType": "TEMPORARY", "reason": "spam", "duration": 0},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown ban type",
			body:       gin.H{"banType": "FOREVER", "reason": "spam"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "already banned",
			body:       gin.H{"reason": "spam"},
			serviceErr: fmt.Errorf("user is already banned: %w", services.ErrConflict),
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubModerationService{banErr: tt.serviceErr}
			w, body := doJSON(t, moderationRouter(svc), http.MethodPost, path, tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantReq, svc.banReq)
				user := body["user"].(map[string]interface{})
				assert.Equal(t, string(models.UserStatusBanned), user["status"])
			}
		})
	}
}

func TestModerationHandler_UnbanOptionalBody(t *testing.T) {
	path := "/api/admin/users/" + primitive.NewObjectID().Hex() + "/unban"

	tests := []struct {
		name          string
		body          string
		contentLength int64
		chunked       bool
		wantStatus    int
		wantReason    string
	}{
		{name: "no body", wantStatus: http.StatusOK},
		{name: "chunked empty body", contentLength: -1, chunked: true, wantStatus: http.StatusOK},
		{name: "with reason", body: `{"reason":"appeal accepted"}`, contentLength: 28, wantStatus: http.StatusOK, wantReason: "appeal accepted"},
		{name: "chunked with reason", body: `{"reason":"appeal accepted"}`, contentLength: -1, chunked: true, wantStatus: http.StatusOK, wantReason: "appeal accepted"},
		{name: "malformed body", body: `{"reason":`, contentLength: 10, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubModerationService{}
			req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(tt.body)))
			req.Header.Set("Content-Type", "application/json")
			req.ContentLength = tt.contentLength
			if tt.chunked {
				req.TransferEncoding = []string{"chunked"}
			}
			w := httptest.NewRecorder()
			moderationRouter(svc).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantReason, svc.unbanReq.Reason)
		})
	}
}

func TestModerationHandler_ListMechanicsPagination(t *testing.T) {
	r := moderationRouter(&stubModerationService{})

	w, body := doJSON(t, r, http.MethodGet, "/api/admin/mechanics?isOnline=true&page=2&limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(2), pagination["page"])
	assert.Equal(t, float64(21), pagination["total"])
	assert.Equal(t, float64(3), pagination["totalPages"])

	w, _ = doJSON(t, r, http.MethodGet, "/api/admin/mechanics?isOnline=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type stubBookingService struct {
	services.BookingService
	filter models.BookingFilter
}

func (s *stubBookingService) List(_ context.Context, filter models.BookingFilter, _ *utils.PaginationParams) ([]*models.Booking, int64, error) {
	s.filter = filter
	return []*models.Booking{}, 0, nil
}

func TestBookingHandler_ListDateWindow(t *testing.T) {
	svc := &stubBookingService{}
	h := NewBookingHandler(svc, logger.NewNop())
	r := newTestRouter()
	r.GET("/api/admin/bookings", h.List)

	w, _ := doJSON(t, r, http.MethodGet, "/api/admin/bookings?startDate=2024-03-01&endDate=2024-03-07&paymentMethod=ONLINE", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.filter.StartDate)
	require.NotNil(t, svc.filter.EndDate)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *svc.filter.StartDate)
	assert.Equal(t, time.Date(2024, 3, 7, 23, 59, 59, 999999999, time.UTC), *svc.filter.EndDate)
	assert.Equal(t, models.PaymentMethodOnline, svc.filter.PaymentMethod)

	for _, query := range []string{"startDate=03/01/2024", "startDate=2024-03-07&endDate=2024-03-01"} {
		w, _ = doJSON(t, r, http.MethodGet, "/api/admin/bookings?"+query, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
}

func TestBookingHandler_ListStatusFilter(t *testing.T) {
	tests := []struct {
		query      string
		wantStatus int
		wantFilter models.BookingStatus
	}{
		{"status=EXPIRED", http.StatusOK, models.BookingStatusExpired},
		{"status=IN_PROGRESS", http.StatusOK, models.BookingStatusInProgress},
		{"", http.StatusOK, ""},
		{"status=DONE", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			svc := &stubBookingService{}
			h := NewBookingHandler(svc, logger.NewNop())
			r := newTestRouter()
			r.GET("/api/admin/bookings", h.List)

			w, _ := doJSON(t, r, http.MethodGet, "/api/admin/bookings?"+tt.query, nil)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantFilter, svc.filter.Status)
		})
	}
}

type stubAuthService struct {
	services.AuthService
	loginErr error
}

func (s *stubAuthService) Login(_ context.Context, email, _ string, _ services.Actor) (*services.LoginResult, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &services.LoginResult{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresIn:    900,
		Admin:        models.AdminProfile{Email: email, Name: "Root", Role: models.AdminRoleSuperAdmin},
	}, nil
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name       string
		body       gin.H
		err        error
		wantStatus int
	}{
		{"ok", gin.H{"email": " Admin@MecFinder.in ", "password": "secret123"}, nil, http.StatusOK},
		{"bad email", gin.H{"email": "admin", "password": "secret123"}, nil, http.StatusBadRequest},
		{"wrong password", gin.H{"email": "admin@mecfinder.in", "password": "secret123"}, services.ErrUnauthorized, http.StatusUnauthorized},
		{"locked out", gin.H{"email": "admin@mecfinder.in", "password": "secret123"}, services.ErrTooManyAttempts, http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&stubAuthService{loginErr: tt.err}, logger.NewNop())
			r := gin.New()
			r.POST("/api/admin/login", h.Login)

			w, body := doJSON(t, r, http.MethodPost, "/api/admin/login", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "access", body["accessToken"])
				assert.Equal(t, "refresh", body["refreshToken"])
				admin := body["admin"].(map[string]interface{})
				assert.Equal(t, "admin@mecfinder.in", admin["email"])
				assert.Equal(t, "SUPER_ADMIN", admin["role"])
			}
		})
	}
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{fmt.Errorf("pricing %w", services.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("category has services: %w", services.ErrConflict), http.StatusConflict, "CONFLICT"},
		{&services.FieldError{Field: "status", Message: "use the ban endpoint"}, http.StatusBadRequest, "VALIDATION_ERROR"},
		{fmt.Errorf("bad transition: %w", services.ErrValidation), http.StatusBadRequest, "BAD_REQUEST"},
		{services.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{fmt.Errorf("refund: %w", services.ErrUpstream), http.StatusBadGateway, "UPSTREAM_ERROR"},
		{errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			r := gin.New()
			r.GET("/", func(c *gin.Context) { respondError(c, logger.NewNop(), tt.err, "Pricing") })

			w, body := doJSON(t, r, http.MethodGet, "/", nil)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, false, body["success"])
			apiErr := body["error"].(map[string]interface{})
			assert.Equal(t, tt.wantCode, apiErr["code"])
		})
	}
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	up := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("refused") })

	h := NewHealthHandler("test", map[string]Pinger{"mongodb": up, "redis": down})
	r := gin.New()
	r.GET("/health", h.Health)

	w, body := doJSON(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	deps := body["dependencies"].(map[string]interface{})
	assert.Equal(t, "up", deps["mongodb"])
	assert.Equal(t, "down", deps["redis"])
}
