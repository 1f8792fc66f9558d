package profile

import (
	"context"
	"errors"

	"github.com/VishardMehta/pullwise-ai/internal/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&Profile{})
}

// Upsert replaces the row for p.ID in full. The sync payload is authoritative
// for every column it sets, so conflicts resolve as last-write-wins.
func (s *Store) Upsert(ctx context.Context, p *Profile) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(p).Error
}

func (s *Store) GetByID(ctx context.Context, id string) (*Profile, error) {
	var p Profile
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&Profile{}).Count(&n).Error
	return n, err
}
