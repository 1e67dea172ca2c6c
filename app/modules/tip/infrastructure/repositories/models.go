package tipdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	tipdomain "github.com/tipcircle/tipboard/app/modules/tip/domain"
)

// Tip is the persistence model for a posted tip.
type Tip struct {
	bun.BaseModel `bun:"table:tips,alias:t"`

	ID           uuid.UUID  `bun:"id,pk,type:uuid"`
	UserID       uuid.UUID  `bun:"user_id,type:uuid,notnull"`
	Sport        string     `bun:"sport,notnull"`
	Odds         string     `bun:"odds,notnull,default:''"`
	GameAt       time.Time  `bun:"game_at,nullzero"`
	CreatedAt    time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	Status       string     `bun:"status,notnull,default:'pending'"`
	VerifiedAt   *time.Time `bun:"verified_at"`
	VerifiedBy   *uuid.UUID `bun:"verified_by,type:uuid"`
	GameFinished bool       `bun:"game_finished,notnull,default:false"`
}

// Verification is the persistence model for one verification event.
// Rows are append-only; the newest row per tip is the current outcome.
type Verification struct {
	bun.BaseModel `bun:"table:verifications,alias:v"`

	ID         uuid.UUID `bun:"id,pk,type:uuid"`
	TipID      uuid.UUID `bun:"tip_id,type:uuid,notnull"`
	TipsterID  uuid.UUID `bun:"tipster_id,type:uuid,notnull"`
	Status     string    `bun:"status,notnull"`
	AdminID    uuid.UUID `bun:"admin_id,type:uuid,notnull"`
	VerifiedAt time.Time `bun:"verified_at,nullzero,notnull,default:current_timestamp"`
	Note       string    `bun:"note,notnull,default:''"`
}

// User is the persistence model for a tipster profile. Only the display
// fields the leaderboard passes through are mapped here.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	Name      string    `bun:"name,notnull,default:''"`
	Handle    string    `bun:"handle,notnull,default:''"`
	AvatarURL string    `bun:"avatar_url,notnull,default:''"`
	Verified  bool      `bun:"verified,notnull,default:false"`
}

func (t *Tip) toDomain() tipdomain.Tip {
	return tipdomain.Tip{
		ID:           t.ID,
		UserID:       t.UserID,
		Sport:        tipdomain.Sport(t.Sport),
		Odds:         t.Odds,
		GameAt:       t.GameAt,
		CreatedAt:    t.CreatedAt,
		Status:       tipdomain.TipStatus(t.Status),
		VerifiedAt:   t.VerifiedAt,
		VerifiedBy:   t.VerifiedBy,
		GameFinished: t.GameFinished,
	}
}

func (v *Verification) toDomain() tipdomain.Verification {
	return tipdomain.Verification{
		ID:         v.ID,
		TipID:      v.TipID,
		TipsterID:  v.TipsterID,
		Status:     tipdomain.TipStatus(v.Status),
		AdminID:    v.AdminID,
		VerifiedAt: v.VerifiedAt,
		Note:       v.Note,
	}
}

func (u *User) toDomain() tipdomain.UserProfile {
	return tipdomain.UserProfile{
		ID:        u.ID,
		Name:      u.Name,
		Handle:    u.Handle,
		AvatarURL: u.AvatarURL,
		Verified:  u.Verified,
	}
}

func tipsToDomain(rows []Tip) []tipdomain.Tip {
	out := make([]tipdomain.Tip, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}
	return out
}
