package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
)

// UserConfiguration tracks, per user, which reserves are used as collateral
// and which carry debt. One bit per reserve id in each bitmap; the bitmaps
// are mutated only through the setters below.
type UserConfiguration struct {
	UserID     string    `sql:"size:36;PRIMARY_KEY" json:"user_id"`
	Collateral uint64    `sql:"default:0" json:"collateral"`
	Borrowing  uint64    `sql:"default:0" json:"borrowing"`
	Version    int64     `sql:"default:0" json:"version"`
	CreatedAt  time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// UsingAsCollateral reports whether the reserve backs the user's borrows.
func (u *UserConfiguration) UsingAsCollateral(reserveID uint64) bool {
	return u.Collateral&(1<<reserveID) != 0
}

// IsBorrowing reports whether the user has debt in the reserve.
func (u *UserConfiguration) IsBorrowing(reserveID uint64) bool {
	return u.Borrowing&(1<<reserveID) != 0
}

// SetUsingAsCollateral flips the collateral bit for the reserve.
func (u *UserConfiguration) SetUsingAsCollateral(reserveID uint64, using bool) {
	if using {
		u.Collateral |= 1 << reserveID
	} else {
		u.Collateral &^= 1 << reserveID
	}
}

// SetBorrowing flips the borrowing bit for the reserve.
func (u *UserConfiguration) SetBorrowing(reserveID uint64, borrowing bool) {
	if borrowing {
		u.Borrowing |= 1 << reserveID
	} else {
		u.Borrowing &^= 1 << reserveID
	}
}

// HasAnyDebt reports whether any borrowing bit is set.
func (u *UserConfiguration) HasAnyDebt() bool {
	return u.Borrowing != 0
}

// IsEmpty reports whether the user has no collateral and no debt marked.
func (u *UserConfiguration) IsEmpty() bool {
	return u.Collateral == 0 && u.Borrowing == 0
}

// IUserConfigStore user configuration store interface
type IUserConfigStore interface {
	// Find returns a zero-value configuration when the user has none yet.
	Find(ctx context.Context, userID string) (*UserConfiguration, error)
	Save(ctx context.Context, tx *db.DB, cfg *UserConfiguration) error
}
