package core

import (
	"github.com/fox-one/pkg/store/db"
)

// Transactor runs fn as one all-or-nothing unit: every mutation inside fn
// becomes visible together or not at all. *db.DB satisfies it.
type Transactor interface {
	Tx(fn func(tx *db.DB) error) error
}
