package settings

import (
	"context"
	"database/sql"
	"errors"

	"go-hrms/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=settings_repo.go -destination=mock/settings_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Get(ctx context.Context) (*Settings, error)
	Save(ctx context.Context, s *Settings) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.BindTx(r.db, tx)}
}

// Get returns the singleton row, creating it with defaults on first access.
func (r *repository) Get(ctx context.Context) (*Settings, error) {
	var s Settings
	err := r.db.WithContext(ctx).First(&s, "id = ?", SettingsRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s = *DefaultSettings()
		if err := r.db.WithContext(ctx).Create(&s).Error; err != nil {
			return nil, err
		}
		return &s, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) Save(ctx context.Context, s *Settings) error {
	s.ID = SettingsRowID
	return r.db.WithContext(ctx).Save(s).Error
}
