package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ramsthapit/service-contracts/pkg/handler"
)

// GormStore implements OperationStore using GORM.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed operation store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates the necessary tables.
func (s *GormStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&OperationRecord{})
}

// Save persists a new record. A missing token is filled in.
func (s *GormStore) Save(ctx context.Context, rec *OperationRecord) error {
	if rec.Token == "" {
		rec.Token = uuid.New().String()
	}
	if rec.Status == "" {
		rec.Status = handler.StateRunning
	}
	return s.db.WithContext(ctx).Create(rec).Error
}

// Get returns the record for a token, or ErrNotFound.
func (s *GormStore) Get(ctx context.Context, token string) (*OperationRecord, error) {
	var rec OperationRecord
	err := s.db.WithContext(ctx).First(&rec, "token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Complete moves a record to its terminal success or failure state. A
// record that already reached a terminal state is left untouched.
func (s *GormStore) Complete(ctx context.Context, token string, result []byte, opErr string) error {
	now := time.Now()
	status := handler.StateSucceeded
	if opErr != "" {
		status = handler.StateFailed
	}
	res := s.db.WithContext(ctx).
		Model(&OperationRecord{}).
		Where("token = ?", token).
		Where("status = ?", handler.StateRunning).
		Updates(map[string]any{
			"status":       status,
			"result":       result,
			"last_error":   opErr,
			"completed_at": &now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkCancelled moves a running record to the cancelled state.
func (s *GormStore) MarkCancelled(ctx context.Context, token string) error {
	now := time.Now()
	res := s.db.WithContext(ctx).
		Model(&OperationRecord{}).
		Where("token = ?", token).
		Where("status = ?", handler.StateRunning).
		Updates(map[string]any{
			"status":       handler.StateCancelled,
			"completed_at": &now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a record.
func (s *GormStore) Delete(ctx context.Context, token string) error {
	return s.db.WithContext(ctx).Delete(&OperationRecord{}, "token = ?", token).Error
}

// DeleteExpired removes records whose ExpiresAt is before now.
func (s *GormStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", now).
		Delete(&OperationRecord{})
	return res.RowsAffected, res.Error
}
