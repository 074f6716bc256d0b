package domain

import "time"

// RefreshToken is the durable ledger record for one issued refresh token.
//
// Security notes:
// - We never store the raw token in DB, only its SHA-256 hash (TokenHash).
// - On refresh we rotate tokens: the presented token is revoked and replaced
//   by a successor in the same step, so each token is usable at most once.
// - Records are never deleted; revoked and expired rows stay behind so replay
//   attempts remain observable.
type RefreshToken struct {
	ID int64 `json:"id" gorm:"primaryKey"`

	// UserID is a plain indexed column, not a foreign key: ledger rows must
	// survive account deletion.
	UserID int64 `json:"user_id" gorm:"index;not null"`

	TokenHash string `json:"-" gorm:"size:64;uniqueIndex;not null"`

	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at" gorm:"index;not null"`
	RevokedAt *time.Time `json:"revoked_at" gorm:"index"`

	ReplacedByID *int64 `json:"replaced_by_id" gorm:"index"`
}

func (t *RefreshToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

func (t *RefreshToken) IsRevoked() bool {
	return t.RevokedAt != nil
}
