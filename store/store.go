// Package store is the per-account persistence layer. Each account owns
// one record per entity kind, serialized as JSON — the same shape as the
// keyed blobs the web client kept, but behind a typed interface.
//
// Known limitation: two sessions writing the same (account, kind) are not
// synchronized; the last write wins.
package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/pinkpay/offramp-engine/engine"
)

// Entity kinds persisted per account.
const (
	KindTransactions = "transactions"
	KindKYC          = "kyc"
	KindRewards      = "rewards"
	KindExpenses     = "expenses"
	KindBudgets      = "budgets"
	KindGoals        = "goals"
	KindGameStats    = "gamestats"
	KindLanguage     = "language"
)

// Store loads and saves one entity collection per (account, kind).
// Load reports found=false and leaves v untouched when nothing has been
// saved yet, so callers can fall back to a well-defined default.
type Store interface {
	Load(accountID, kind string, v any) (bool, error)
	Save(accountID, kind string, v any) error
	Delete(accountID, kind string) error
}

// Record is the single backing table row.
type Record struct {
	ID        uint   `gorm:"primaryKey"`
	AccountID string `gorm:"size:64;not null;uniqueIndex:idx_account_kind"`
	Kind      string `gorm:"size:32;not null;uniqueIndex:idx_account_kind"`
	Value     string `gorm:"type:text"`
}

func (Record) TableName() string {
	return "records"
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates the backing table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Record{})
}

func (s *GormStore) Load(accountID, kind string, v any) (bool, error) {
	var rec Record
	err := s.db.Where("account_id = ? AND kind = ?", accountID, kind).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: load %s for %s: %v", engine.ErrPersistenceUnavailable, kind, accountID, err)
	}
	if err := json.Unmarshal([]byte(rec.Value), v); err != nil {
		return false, fmt.Errorf("%w: decode %s for %s: %v", engine.ErrPersistenceUnavailable, kind, accountID, err)
	}
	return true, nil
}

func (s *GormStore) Save(accountID, kind string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encode %s for %s: %v", engine.ErrPersistenceUnavailable, kind, accountID, err)
	}

	var rec Record
	err = s.db.Where("account_id = ? AND kind = ?", accountID, kind).First(&rec).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		rec = Record{AccountID: accountID, Kind: kind, Value: string(raw)}
		err = s.db.Create(&rec).Error
	case err == nil:
		err = s.db.Model(&rec).Update("value", string(raw)).Error
	}
	if err != nil {
		return fmt.Errorf("%w: save %s for %s: %v", engine.ErrPersistenceUnavailable, kind, accountID, err)
	}
	return nil
}

func (s *GormStore) Delete(accountID, kind string) error {
	err := s.db.Where("account_id = ? AND kind = ?", accountID, kind).Delete(&Record{}).Error
	if err != nil {
		return fmt.Errorf("%w: delete %s for %s: %v", engine.ErrPersistenceUnavailable, kind, accountID, err)
	}
	return nil
}
