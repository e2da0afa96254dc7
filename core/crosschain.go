package core

import (
	"context"
	"time"

	"github.com/lib/pq"
	"github.com/pandodao/blst"
)

// Selector tags understood by the cross-chain sync protocol.
const (
	// SelectorReserveConfigurationChanged reserve configuration replication
	SelectorReserveConfigurationChanged uint32 = 1
)

// Message statuses.
const (
	// MessageStatusPending not yet processed
	MessageStatusPending = iota
	// MessageStatusApplied applied to the local reserve
	MessageStatusApplied
	// MessageStatusRejected rejected with an error code
	MessageStatusRejected
)

// Message is an inbound cross-chain message: an authenticated payload
// asserting a fact that occurred on another chain. Payload decodes to
// (selector, chainId, asset, configuration). Delivery is unordered and may
// duplicate; applying the same configuration twice is idempotent.
type Message struct {
	ID            uint64         `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	TraceID       string         `sql:"size:36;unique_index:msg_trace_idx" json:"trace_id"`
	Origin        string         `sql:"size:64" json:"origin"`
	OriginChainID int64          `sql:"default:0" json:"origin_chain_id"`
	Payload       []byte         `sql:"type:varbinary(2048)" json:"payload"`
	SignerMask    uint64         `sql:"default:0" json:"signer_mask"`
	Signature     string         `sql:"size:256" json:"signature"`
	Status        int            `sql:"default:0" json:"status"`
	ErrorCode     string         `sql:"size:16" json:"error_code,omitempty"`
	Receipts      pq.StringArray `sql:"type:varchar(1024)" json:"receipts,omitempty"`
	Version       int64          `sql:"default:0" json:"version"`
	CreatedAt     time.Time      `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time      `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Signer is a registered sync signer with its verify key. A message is
// authentic when signers covering the threshold co-signed its payload.
type Signer struct {
	Index     uint64          `json:"index,omitempty"`
	VerifyKey *blst.PublicKey `json:"verify_key,omitempty"`
}

// IMessageStore inbound message store interface
type IMessageStore interface {
	Create(ctx context.Context, message *Message) error
	Find(ctx context.Context, traceID string) (*Message, bool, error)
	List(ctx context.Context, fromID uint64, limit int) ([]*Message, error)
	Update(ctx context.Context, message *Message, version int64) error
}

// IConfigSyncService applies authenticated configuration messages.
type IConfigSyncService interface {
	// Apply authenticates the message and overwrites the local reserve's
	// configuration bitmap atomically. Any failed check aborts with a
	// specific error and zero state change.
	Apply(ctx context.Context, message *Message) error
}
