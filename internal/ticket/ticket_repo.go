package ticket

import (
	"context"
	"database/sql"
	"time"

	"go-hrms/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=ticket_repo.go -destination=mock/ticket_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, t *Ticket) error
	FindAll(ctx context.Context) ([]Ticket, error)
	FindAllByRaiser(ctx context.Context, raisedByID string) ([]Ticket, error)
	FindAllByAssignee(ctx context.Context, toID string) ([]Ticket, error)
	FindByID(ctx context.Context, id string) (*Ticket, error)
	SetStatus(ctx context.Context, id, status string, resolution *string) (bool, error)
	Delete(ctx context.Context, id string) error
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

func (r *repository) Create(ctx context.Context, t *Ticket) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Ticket, error) {
	var tickets []Ticket
	err := r.db.WithContext(ctx).
		Preload("RaisedBy").
		Preload("To").
		Order("created_at DESC").
		Find(&tickets).Error
	return tickets, err
}

func (r *repository) FindAllByRaiser(ctx context.Context, raisedByID string) ([]Ticket, error) {
	var tickets []Ticket
	err := r.db.WithContext(ctx).
		Preload("To").
		Where("raised_by_id = ?", raisedByID).
		Order("created_at DESC").
		Find(&tickets).Error
	return tickets, err
}

func (r *repository) FindAllByAssignee(ctx context.Context, toID string) ([]Ticket, error) {
	var tickets []Ticket
	err := r.db.WithContext(ctx).
		Preload("RaisedBy").
		Where("to_id = ?", toID).
		Order("created_at DESC").
		Find(&tickets).Error
	return tickets, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Ticket, error) {
	var t Ticket
	err := r.db.WithContext(ctx).
		Preload("RaisedBy").
		Preload("To").
		First(&t, "id = ?", id).Error
	return &t, err
}

// SetStatus moves a non-closed ticket into the given status. The guard keeps
// closed tickets immutable even under concurrent updates.
func (r *repository) SetStatus(ctx context.Context, id, status string, resolution *string) (bool, error) {
	updates := map[string]any{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}
	if resolution != nil {
		updates["resolution"] = *resolution
	}

	res := r.db.WithContext(ctx).
		Model(&Ticket{}).
		Where("id = ?", id).
		Where("status <> ?", StatusClosed).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Ticket{}, "id = ?", id).Error
}
