package validators

import (
	"testing"

	"mecfinder/pkg/moderation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestValidateUpsertPricing(t *testing.T) {
	tests := []struct {
		name      string
		req       UpsertPricingRequest
		wantField string
	}{
		{
			name: "valid with defaults",
			req:  UpsertPricingRequest{ServiceID: "64b7f0c2a1b2c3d4e5f60718", RegionID: "64b7f0c2a1b2c3d4e5f60719"},
		},
		{
			name:      "bad service id",
			req:       UpsertPricingRequest{ServiceID: "nope", RegionID: "64b7f0c2a1b2c3d4e5f60719"},
			wantField: "serviceId",
		},
		{
			name: "gst above 100",
			req: UpsertPricingRequest{
				ServiceID:  "64b7f0c2a1b2c3d4e5f60718",
				RegionID:   "64b7f0c2a1b2c3d4e5f60719",
				GSTPercent: ptr(120.0),
			},
			wantField: "gstPercent",
		},
		{
			name: "negative travel",
			req: UpsertPricingRequest{
				ServiceID:    "64b7f0c2a1b2c3d4e5f60718",
				RegionID:     "64b7f0c2a1b2c3d4e5f60719",
				TravelCharge: ptr(-1.0),
			},
			wantField: "travelCharge",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateUpsertPricing(&tt.req)
			if tt.wantField == "" {
				assert.Empty(t, errs)
				return
			}
			require.NotEmpty(t, errs)
			assert.Contains(t, errs.ToMap(), tt.wantField)
		})
	}
}

func TestValidateUpdatePricing_RequiresAField(t *testing.T) {
	errs := ValidateUpdatePricing(&UpdatePricingRequest{})
	assert.Contains(t, errs.ToMap(), "body")

	errs = ValidateUpdatePricing(&UpdatePricingRequest{Status: ptr("ARCHIVED")})
	assert.Contains(t, errs.ToMap(), "status")

	assert.Empty(t, ValidateUpdatePricing(&UpdatePricingRequest{BasePrice: ptr(650.0)}))
}

func TestBookingStatusRequest(t *testing.T) {
	tests := []struct {
		status  string
		wantErr bool
	}{
		{"EXPIRED", false},
		{"CANCELLED", false},
		{"IN_PROGRESS", false},
		{"expired", true},
		{"DONE", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			errs := ValidateStruct(&BookingStatusRequest{Status: tt.status})
			if tt.wantErr {
				assert.Contains(t, errs.ToMap(), "status")
			} else {
				assert.Empty(t, errs)
			}
		})
	}
}

func TestValidateBan(t *testing.T) {
	req, errs := ValidateBan(&BanRequest{Reason: "  abusive  "})
	assert.Empty(t, errs)
	assert.Equal(t, moderation.BanTypeTemporary, req.BanType)
	assert.Equal(t, moderation.DefaultDurationDays, req.Duration)
	assert.Equal(t, "abusive", req.Reason)

	req, errs = ValidateBan(&BanRequest{BanType: "PERMANENT", Reason: "fraud", Duration: ptr(3)})
	assert.Empty(t, errs)
	assert.Equal(t, 0, req.Duration)

	_, errs = ValidateBan(&BanRequest{BanType: "FOREVER", Reason: "x"})
	assert.Contains(t, errs.ToMap(), "banType")

	_, errs = ValidateBan(&BanRequest{Reason: "   "})
	assert.Contains(t, errs.ToMap(), "reason")

	_, errs = ValidateBan(&BanRequest{Reason: "late", Duration: ptr(0)})
	assert.Contains(t, errs.ToMap(), "duration")
}

func TestValidateCreateSupportQuery_Defaults(t *testing.T) {
	req := &CreateSupportQueryRequest{
		UserID:  "64b7f0c2a1b2c3d4e5f60718",
		Subject: "<b>Refund</b> missing",
		Message: "Paid online, booking cancelled",
	}
	assert.Empty(t, ValidateCreateSupportQuery(req))
	assert.Equal(t, "Refund missing", req.Subject)
	assert.Equal(t, "MEDIUM", req.Priority)
	assert.Equal(t, "GENERAL", req.Category)

	req.Priority = "CRITICAL"
	assert.Contains(t, ValidateStruct(req).ToMap(), "priority")
}

func TestValidateAdminLogin(t *testing.T) {
	req := &AdminLoginRequest{Email: " Admin@MecFinder.in ", Password: "secret123"}
	assert.Empty(t, ValidateAdminLogin(req))
	assert.Equal(t, "admin@mecfinder.in", req.Email)

	assert.Contains(t, ValidateAdminLogin(&AdminLoginRequest{Email: "x"}).ToMap(), "email")
}
