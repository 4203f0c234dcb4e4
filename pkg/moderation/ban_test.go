package moderation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jan1 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestBanRequest_Validate(t *testing.T) {
	tests := []struct {
		name  string
		req   BanRequest
		field string
	}{
		{"empty reason", BanRequest{BanType: BanTypePermanent, Reason: ""}, "reason"},
		{"blank reason", BanRequest{BanType: BanTypeTemporary, Reason: "   ", Duration: 3}, "reason"},
		{"unknown type", BanRequest{BanType: "FOREVER", Reason: "spam"}, "banType"},
		{"temporary without duration", BanRequest{BanType: BanTypeTemporary, Reason: "spam"}, "duration"},
		{"temporary negative duration", BanRequest{BanType: BanTypeTemporary, Reason: "spam", Duration: -2}, "duration"},
		{"valid permanent", BanRequest{BanType: BanTypePermanent, Reason: "fraud"}, ""},
		{"valid temporary", BanRequest{BanType: BanTypeTemporary, Reason: "late", Duration: 1}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestBan_Temporary(t *testing.T) {
	info, err := Ban(BanInfo{}, BanRequest{BanType: BanTypeTemporary, Reason: "no-show", Duration: 3}, "admin-1", jan1)
	require.NoError(t, err)

	assert.True(t, info.IsBanned)
	assert.Equal(t, StateBannedTemporary, info.State())
	require.NotNil(t, info.BanExpiresAt)
	assert.Equal(t, time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC), *info.BanExpiresAt)
	assert.Equal(t, "admin-1", info.BannedBy)

	days, ok := info.RemainingDays(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	assert.True(t, ok)
	assert.Equal(t, 2, days)
}

func TestBan_TemporaryExpiryIsExact(t *testing.T) {
	info, err := Ban(BanInfo{}, BanRequest{BanType: BanTypeTemporary, Reason: "abuse", Duration: 7}, "", jan1)
	require.NoError(t, err)
	assert.Equal(t, 7*Day, info.BanExpiresAt.Sub(*info.BannedAt))
}

func TestBan_PermanentHasNoExpiry(t *testing.T) {
	info, err := Ban(BanInfo{}, BanRequest{BanType: BanTypePermanent, Reason: "fraud", Duration: 30}, "", jan1)
	require.NoError(t, err)

	assert.Equal(t, StateBannedPermanent, info.State())
	assert.Nil(t, info.BanExpiresAt)
	_, ok := info.RemainingDays(jan1)
	assert.False(t, ok)
	assert.Equal(t, PermanentLabel, info.Label(jan1))
}

func TestBan_AlreadyBannedConflicts(t *testing.T) {
	info, err := Ban(BanInfo{}, BanRequest{BanType: BanTypePermanent, Reason: "fraud"}, "", jan1)
	require.NoError(t, err)

	_, err = Ban(info, BanRequest{BanType: BanTypeTemporary, Reason: "again", Duration: 2}, "", jan1)
	assert.ErrorIs(t, err, ErrAlreadyBanned)
}

func TestBan_ValidationBeforeConflict(t *testing.T) {
	banned := BanInfo{IsBanned: true, BanType: BanTypePermanent}
	_, err := Ban(banned, BanRequest{BanType: BanTypePermanent}, "", jan1)

	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestUnban_AlwaysActive(t *testing.T) {
	temp, _ := Ban(BanInfo{}, BanRequest{BanType: BanTypeTemporary, Reason: "x", Duration: 2}, "", jan1)
	perm, _ := Ban(BanInfo{}, BanRequest{BanType: BanTypePermanent, Reason: "x"}, "", jan1)

	for _, info := range []BanInfo{temp, perm, {}} {
		got := Unban(info)
		assert.Equal(t, StateActive, got.State())
		assert.False(t, got.IsBanned)
		assert.Nil(t, got.BanExpiresAt)
	}
}

func TestLabel(t *testing.T) {
	info, _ := Ban(BanInfo{}, BanRequest{BanType: BanTypeTemporary, Reason: "x", Duration: 2}, "", jan1)

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"two days left", jan1, "2 days left"},
		{"partial day rounds up", jan1.Add(30 * time.Hour), "1 day left"},
		{"exactly at expiry", jan1.Add(2 * Day), ExpiredLabel},
		{"past expiry", jan1.Add(5 * Day), ExpiredLabel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, info.Label(tt.now))
		})
	}

	assert.Equal(t, "ACTIVE", BanInfo{}.Label(jan1))
}

func TestExpired(t *testing.T) {
	info, _ := Ban(BanInfo{}, BanRequest{BanType: BanTypeTemporary, Reason: "x", Duration: 1}, "", jan1)

	assert.False(t, info.Expired(jan1.Add(23*time.Hour)))
	assert.True(t, info.Expired(jan1.Add(Day)))

	days, ok := info.RemainingDays(jan1.Add(3 * Day))
	assert.True(t, ok)
	assert.Equal(t, -2, days)
}
