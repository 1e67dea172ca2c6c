// Package tipdomain holds the pure domain model of the tip engine: tips,
// their verification lifecycle, and the statistics derived from them.
package tipdomain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TipStatus is the verification outcome of a tip. A tip starts pending and
// moves to exactly one of the terminal statuses when an admin verifies it.
type TipStatus string

const (
	StatusPending TipStatus = "pending"
	StatusWin     TipStatus = "win"
	StatusLoss    TipStatus = "loss"
	StatusVoid    TipStatus = "void"
	StatusPlace   TipStatus = "place"
)

// ParseStatus validates a raw status string.
func ParseStatus(s string) (TipStatus, error) {
	switch TipStatus(s) {
	case StatusPending, StatusWin, StatusLoss, StatusVoid, StatusPlace:
		return TipStatus(s), nil
	}
	return "", fmt.Errorf("unknown tip status %q", s)
}

// IsTerminal reports whether the status is a verification outcome.
func (s TipStatus) IsTerminal() bool {
	switch s {
	case StatusWin, StatusLoss, StatusVoid, StatusPlace:
		return true
	}
	return false
}

func (s TipStatus) String() string { return string(s) }

// MarshalText implements encoding.TextMarshaler.
func (s TipStatus) MarshalText() ([]byte, error) {
	return []byte(s), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, rejecting unknown
// statuses at decode time.
func (s *TipStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Sport is the category a tip is filed under.
type Sport string

const (
	SportFootball        Sport = "Football"
	SportHorseRacing     Sport = "Horse Racing"
	SportGreyhoundRacing Sport = "Greyhound Racing"
	SportGolf            Sport = "Golf"
	SportTennis          Sport = "Tennis"
	SportBoxing          Sport = "Boxing"
	SportCricket         Sport = "Cricket"
	SportBasketball      Sport = "Basketball"
)

// SupportsPlace reports whether a placed finish is a meaningful outcome for
// the sport. A place status is still accepted for other sports; the
// aggregator treats it as void-like either way, so nothing miscounts.
func (s Sport) SupportsPlace() bool {
	switch s {
	case SportHorseRacing, SportGreyhoundRacing, SportGolf:
		return true
	}
	return false
}

// Tip is a user-submitted prediction subject to later verification.
type Tip struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Sport        Sport
	Odds         string // raw form, e.g. "2/1" or "3.5"; parsed on demand
	GameAt       time.Time
	CreatedAt    time.Time
	Status       TipStatus
	VerifiedAt   *time.Time
	VerifiedBy   *uuid.UUID
	GameFinished bool
}

// IsVerified reports whether the tip has left the pending state.
func (t Tip) IsVerified() bool {
	return t.Status != StatusPending
}

// Verification records an admin assigning a terminal outcome to a tip.
// Records are append-only history; the newest one per tip is the current
// outcome.
type Verification struct {
	ID         uuid.UUID
	TipID      uuid.UUID
	TipsterID  uuid.UUID
	Status     TipStatus
	AdminID    uuid.UUID
	VerifiedAt time.Time
	Note       string
}

// UserProfile carries the display identity fields passed through to
// leaderboard entries untouched.
type UserProfile struct {
	ID        uuid.UUID
	Name      string
	Handle    string
	AvatarURL string
	Verified  bool
}
