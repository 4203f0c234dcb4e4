// Package moderation models the ban lifecycle shared by app users and mechanics.
package moderation

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

type BanType string

const (
	BanTypePermanent BanType = "PERMANENT"
	BanTypeTemporary BanType = "TEMPORARY"
)

func (t BanType) IsValid() bool {
	return t == BanTypePermanent || t == BanTypeTemporary
}

type State string

const (
	StateActive          State = "ACTIVE"
	StateBannedTemporary State = "BANNED_TEMPORARY"
	StateBannedPermanent State = "BANNED_PERMANENT"
)

const (
	Day = 24 * time.Hour

	DefaultBanType      = BanTypeTemporary
	DefaultDurationDays = 7
	ExpiredLabel        = "Expired"
	PermanentLabel      = "Permanent"
)

var ErrAlreadyBanned = errors.New("subject is already banned")

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// BanInfo is embedded in user and mechanic documents.
type BanInfo struct {
	IsBanned     bool       `bson:"is_banned" json:"isBanned"`
	BanType      BanType    `bson:"ban_type,omitempty" json:"banType,omitempty"`
	BanReason    string     `bson:"ban_reason,omitempty" json:"banReason,omitempty"`
	BannedAt     *time.Time `bson:"banned_at,omitempty" json:"bannedAt,omitempty"`
	BanExpiresAt *time.Time `bson:"ban_expires_at,omitempty" json:"banExpiresAt,omitempty"`
	BannedBy     string     `bson:"banned_by,omitempty" json:"bannedBy,omitempty"`
}

// BanRequest is the operator input for a ban. Duration is in days and only read for
// temporary bans.
type BanRequest struct {
	BanType  BanType `json:"banType"`
	Reason   string  `json:"reason"`
	Duration int     `json:"duration,omitempty"`
}

type UnbanRequest struct {
	Reason string `json:"reason,omitempty"`
}

func (r BanRequest) Validate() error {
	if strings.TrimSpace(r.Reason) == "" {
		return &ValidationError{Field: "reason", Message: "ban reason is required"}
	}
	if !r.BanType.IsValid() {
		return &ValidationError{Field: "banType", Message: "must be PERMANENT or TEMPORARY"}
	}
	if r.BanType == BanTypeTemporary && r.Duration < 1 {
		return &ValidationError{Field: "duration", Message: "temporary ban needs a duration of at least 1 day"}
	}
	return nil
}

func (b BanInfo) State() State {
	if !b.IsBanned {
		return StateActive
	}
	if b.BanType == BanTypeTemporary {
		return StateBannedTemporary
	}
	return StateBannedPermanent
}

// Ban applies req to the current state. Banning an already banned subject fails with
// ErrAlreadyBanned; the caller must unban first.
func Ban(current BanInfo, req BanRequest, bannedBy string, now time.Time) (BanInfo, error) {
	if err := req.Validate(); err != nil {
		return current, err
	}
	if current.IsBanned {
		return current, ErrAlreadyBanned
	}

	now = now.UTC()
	next := BanInfo{
		IsBanned:  true,
		BanType:   req.BanType,
		BanReason: strings.TrimSpace(req.Reason),
		BannedAt:  &now,
		BannedBy:  bannedBy,
	}
	if req.BanType == BanTypeTemporary {
		expires := now.Add(time.Duration(req.Duration) * Day)
		next.BanExpiresAt = &expires
	}
	return next, nil
}

// Unban always returns the active state, whatever the prior ban type or expiry.
func Unban(BanInfo) BanInfo {
	return BanInfo{}
}

// Expired reports whether a temporary ban has passed its expiry. Permanent bans and
// active subjects never expire.
func (b BanInfo) Expired(now time.Time) bool {
	if b.State() != StateBannedTemporary || b.BanExpiresAt == nil {
		return false
	}
	return !now.Before(*b.BanExpiresAt)
}

// RemainingDays is ceil((banExpiresAt - now) / 1 day). ok is false when the subject is
// not under a temporary ban. The value can be zero or negative once expired.
func (b BanInfo) RemainingDays(now time.Time) (days int, ok bool) {
	if b.State() != StateBannedTemporary || b.BanExpiresAt == nil {
		return 0, false
	}
	ms := b.BanExpiresAt.Sub(now).Milliseconds()
	return int(math.Ceil(float64(ms) / float64(Day.Milliseconds()))), true
}

// Label renders the ban status for display.
func (b BanInfo) Label(now time.Time) string {
	switch b.State() {
	case StateBannedPermanent:
		return PermanentLabel
	case StateBannedTemporary:
		days, _ := b.RemainingDays(now)
		if days <= 0 {
			return ExpiredLabel
		}
		if days == 1 {
			return "1 day left"
		}
		return fmt.Sprintf("%d days left", days)
	default:
		return string(StateActive)
	}
}
