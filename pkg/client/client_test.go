package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"mecfinder/pkg/moderation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	*httptest.Server
	hits     atomic.Int32
	mux      *http.ServeMux
	accepted atomic.Value
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	api := &fakeAPI{mux: http.NewServeMux()}
	api.accepted.Store("access-1")

	api.mux.HandleFunc("/api/admin/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret123" {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":      true,
			"accessToken":  "access-1",
			"refreshToken": "refresh-1",
			"admin":        map[string]string{"_id": "a1", "name": "Root", "email": body["email"], "role": "SUPER_ADMIN"},
		})
	})
	api.mux.HandleFunc("/api/admin/refresh", func(w http.ResponseWriter, r *http.Request) {
		api.accepted.Store("access-2")
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"accessToken":  "access-2",
			"refreshToken": "refresh-2",
			"admin":        map[string]string{"_id": "a1", "name": "Root", "role": "SUPER_ADMIN"},
		})
	})
	api.mux.HandleFunc("/api/admin/logout", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
	})

	api.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.hits.Add(1)
		if !strings.HasPrefix(r.URL.Path, "/api/admin/login") && !strings.HasPrefix(r.URL.Path, "/api/admin/refresh") &&
			r.Header.Get("Authorization") != "Bearer "+api.accepted.Load().(string) {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "Invalid or expired token"})
			return
		}
		api.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(api.Close)
	return api
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func loggedIn(t *testing.T, api *fakeAPI, store SessionStore) *Client {
	t.Helper()
	c := New(Config{BaseURL: api.URL + "/api/", Store: store})
	_, err := c.Login(context.Background(), "root@mecfinder.in", "secret123")
	require.NoError(t, err)
	return c
}

func TestLoginPersistsSessionAndLogoutClearsIt(t *testing.T) {
	api := newFakeAPI(t)
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileSessionStore(path)

	c := loggedIn(t, api, store)
	require.NotNil(t, c.Session())
	assert.Equal(t, "SUPER_ADMIN", c.Session().Admin.Role)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var saved map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Contains(t, saved, "admin")
	assert.Contains(t, saved, "accessToken")
	assert.Contains(t, saved, "refreshToken")

	restored := New(Config{BaseURL: api.URL + "/api", Store: store})
	session, err := restored.Restore()
	require.NoError(t, err)
	assert.Equal(t, "refresh-1", session.RefreshToken)

	require.NoError(t, c.Logout(context.Background()))
	assert.Nil(t, c.Session())
	_, err = os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoginFailures(t *testing.T) {
	api := newFakeAPI(t)
	c := New(Config{BaseURL: api.URL + "/api"})

	_, err := c.Login(context.Background(), "", "secret123")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Field)
	assert.Equal(t, int32(0), api.hits.Load())

	_, err = c.Login(context.Background(), "root@mecfinder.in", "wrong-pass")
	assert.True(t, IsUnauthorized(err))
	assert.Nil(t, c.Session())
}

func TestCallsWithoutSession(t *testing.T) {
	c := New(Config{BaseURL: "http://127.0.0.1:1/api"})
	_, err := c.ListPricing(context.Background(), PricingFilter{})
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestBanIsValidatedBeforeSending(t *testing.T) {
	tests := []struct {
		name      string
		in        BanInput
		wantField string
	}{
		{"empty reason", BanInput{BanType: moderation.BanTypePermanent, Reason: "  "}, "reason"},
		{"temporary without duration", BanInput{BanType: moderation.BanTypeTemporary, Reason: "spam"}, "duration"},
		{"default type needs a duration", BanInput{Reason: "spam", Duration: 0}, "duration"},
		{"unknown type", BanInput{BanType: "FOREVER", Reason: "spam"}, "banType"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI(t)
			c := loggedIn(t, api, nil)
			before := api.hits.Load()

			_, err := c.BanUser(context.Background(), "u1", tt.in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
			assert.Equal(t, before, api.hits.Load())
		})
	}
}

func TestBanSendsNormalizedBody(t *testing.T) {
	api := newFakeAPI(t)
	var got map[string]interface{}
	api.mux.HandleFunc("/api/admin/mechanics/m1/ban", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"mechanic": map[string]interface{}{"_id": "m1", "status": "BANNED", "banInfo": map[string]interface{}{"isBanned": true, "banType": "PERMANENT"}},
		})
	})
	c := loggedIn(t, api, nil)

	mechanic, err := c.BanMechanic(context.Background(), "m1", BanInput{BanType: moderation.BanTypePermanent, Reason: "fraud", Duration: 9})
	require.NoError(t, err)
	assert.Equal(t, "BANNED", mechanic.Status)
	assert.True(t, mechanic.BanInfo.IsBanned)
	assert.Equal(t, "PERMANENT", got["banType"])
	assert.NotContains(t, got, "duration")
}

func TestErrorTaxonomy(t *testing.T) {
	api := newFakeAPI(t)
	api.mux.HandleFunc("/api/pricing/missing", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"success": false, "message": "Pricing not found"})
	})
	api.mux.HandleFunc("/api/admin/users/u1/ban", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]interface{}{"success": false, "message": "user is already banned"})
	})
	api.mux.HandleFunc("/api/pricing", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "Validation failed",
			"error":   map[string]interface{}{"code": "VALIDATION_ERROR", "details": map[string]string{"gstPercent": "must be between 0 and 100"}},
		})
	})
	api.mux.HandleFunc("/api/support/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"success": false, "message": "Internal server error", "error": map[string]string{"code": "INTERNAL_ERROR"}})
	})
	c := loggedIn(t, api, nil)
	ctx := context.Background()

	_, err := c.GetPricing(ctx, "missing")
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)

	_, err = c.BanUser(ctx, "u1", BanInput{Reason: "spam", Duration: 3})
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)

	_, err = c.UpsertPricing(ctx, PricingInput{ServiceID: "s1", RegionID: "r1"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "gstPercent", verr.Field)

	_, err = c.SupportStats(ctx)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "INTERNAL_ERROR", apiErr.Code)
}

func TestNetworkError(t *testing.T) {
	api := newFakeAPI(t)
	c := loggedIn(t, api, nil)
	api.Close()

	_, err := c.ListRegions(context.Background(), "")
	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestExpiredTokenIsRefreshedOnce(t *testing.T) {
	api := newFakeAPI(t)
	api.mux.HandleFunc("/api/support/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"stats": map[string]int{"total": 5, "open": 2}})
	})
	store := NewFileSessionStore(filepath.Join(t.TempDir(), "session.json"))
	c := loggedIn(t, api, store)

	api.accepted.Store("rotated-elsewhere")

	// The server now rejects access-1; refresh issues access-2 and the
	// call is retried with it.
	stats, err := c.SupportStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), stats.Total)
	assert.Equal(t, "access-2", c.Session().AccessToken)

	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "refresh-2", saved.RefreshToken)
}

func TestFailedRequestsAreNotRetried(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantCalls int32
		check     func(error) bool
	}{
		{name: "server error", status: http.StatusInternalServerError, wantCalls: 1, check: func(err error) bool {
			var apiErr *APIError
			return errors.As(err, &apiErr) && apiErr.Status == http.StatusInternalServerError
		}},
		{name: "conflict", status: http.StatusConflict, wantCalls: 1, check: func(err error) bool {
			var conflict *ConflictError
			return errors.As(err, &conflict)
		}},
		{name: "unauthorized after refresh", status: http.StatusUnauthorized, wantCalls: 2, check: IsUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI(t)
			var calls atomic.Int32
			api.mux.HandleFunc("/api/support/stats", func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				writeJSON(w, tt.status, map[string]interface{}{"success": false, "message": "nope"})
			})
			c := loggedIn(t, api, nil)

			_, err := c.SupportStats(context.Background())
			require.Error(t, err)
			assert.True(t, tt.check(err), err.Error())
			assert.Equal(t, tt.wantCalls, calls.Load())
		})
	}
}

func TestPreviewPricingMatchesServerRounding(t *testing.T) {
	five, ten, zero := 5.0, 10.0, 0.0

	tests := []struct {
		name      string
		base      float64
		gst, fee  *float64
		travel    *float64
		wantTotal float64
	}{
		{"standard defaults", 500, nil, nil, nil, 803},
		{"custom rates", 999, &five, &ten, &zero, 1149},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			breakdown, err := PreviewPricing(tt.base, tt.gst, tt.fee, tt.travel)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, breakdown.TotalPrice)
			assert.Equal(t, breakdown.TotalPrice-breakdown.PlatformFeeAmount, breakdown.MechanicEarning)
		})
	}

	bad := 120.0
	_, err := PreviewPricing(500, &bad, nil, nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "gstPercent", verr.Field)
}
