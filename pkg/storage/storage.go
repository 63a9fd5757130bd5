package storage

import (
	"context"
	"errors"
	"time"

	"github.com/ramsthapit/service-contracts/pkg/handler"
)

// ErrNotFound indicates that no record exists for the given token.
var ErrNotFound = errors.New("contracts: operation record not found")

// OperationRecord tracks one asynchronous operation from start to its
// terminal state.
type OperationRecord struct {
	Token       string                 `gorm:"primaryKey;size:36"`
	Service     string                 `gorm:"index;size:255;not null"`
	Operation   string                 `gorm:"size:255;not null"`
	MethodName  string                 `gorm:"size:255;not null"`
	Status      handler.OperationState `gorm:"index;size:20;default:'running'"`
	Input       []byte                 `gorm:"type:bytes"`
	Result      []byte                 `gorm:"type:bytes"`
	LastError   string                 `gorm:"type:text"`
	StartedAt   time.Time              `gorm:"autoCreateTime"`
	CompletedAt *time.Time
	ExpiresAt   *time.Time `gorm:"index"`
}

// OperationStore defines the persistence layer for operation records.
type OperationStore interface {
	// Migrate creates the necessary tables.
	Migrate(ctx context.Context) error

	// Save persists a new record. A missing token is filled in.
	Save(ctx context.Context, rec *OperationRecord) error

	// Get returns the record for a token, or ErrNotFound.
	Get(ctx context.Context, token string) (*OperationRecord, error)

	// Complete moves a record to its terminal success or failure state.
	Complete(ctx context.Context, token string, result []byte, opErr string) error

	// MarkCancelled moves a record to the cancelled state.
	MarkCancelled(ctx context.Context, token string) error

	// Delete removes a record.
	Delete(ctx context.Context, token string) error

	// DeleteExpired removes records whose ExpiresAt is before now, and
	// reports how many were removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
