package leave

import (
	"context"
	"database/sql"
	"time"

	"go-hrms/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindAll(ctx context.Context) ([]LeaveRequest, error)
	FindAllByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	DaysTakenInRange(ctx context.Context, employeeID string, from, to time.Time, excludeID *string) (int, error)
	SetLevelDecision(ctx context.Context, id string, level int, decision string) (bool, error)
	FinalizeStatus(ctx context.Context, id, status string, approvedBy *uuid.UUID, rejectionReason *string) (bool, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx binds every statement of the returned repository to the caller's
// transaction. Reviews rely on this: the level decision, the balance
// deduction and the final status must commit or roll back together.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.BindTx(r.db, tx)}
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindAll(ctx context.Context) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Order("created_at DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").
		First(&l, "id = ?", id).Error
	return &l, err
}

// DaysTakenInRange sums leave_days over non-rejected requests whose span
// starts inside [from, to]. Used for the monthly cap.
func (r *repository) DaysTakenInRange(ctx context.Context, employeeID string, from, to time.Time, excludeID *string) (int, error) {
	var total sql.NullInt64
	q := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Select("COALESCE(SUM(leave_days), 0)").
		Where("employee_id = ?", employeeID).
		Where("status <> ?", StatusRejected).
		Where("start_date >= ? AND start_date <= ?", from, to)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	if err := q.Scan(&total).Error; err != nil {
		return 0, err
	}
	return int(total.Int64), nil
}

// SetLevelDecision flips one approval level from pending to the given
// decision. The WHERE clause is the idempotency guard: a request whose level
// was already reviewed matches zero rows and returns false, so concurrent
// reviewers cannot both win.
func (r *repository) SetLevelDecision(ctx context.Context, id string, level int, decision string) (bool, error) {
	column := "level1_approval"
	if level == 2 {
		column = "level2_approval"
	}

	res := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("id = ?", id).
		Where(column+" = ?", StatusPending).
		Updates(map[string]any{
			column:       decision,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FinalizeStatus moves a still-pending request into its terminal status,
// recording the deciding approver and, for rejections, the reason. The
// status = pending guard keeps the transition single-shot.
func (r *repository) FinalizeStatus(ctx context.Context, id, status string, approvedBy *uuid.UUID, rejectionReason *string) (bool, error) {
	updates := map[string]any{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}
	if approvedBy != nil {
		updates["approved_by"] = *approvedBy
	}
	if rejectionReason != nil {
		updates["rejection_reason"] = *rejectionReason
	}
	if status == StatusApproved {
		updates["level2_approval"] = StatusApproved
	}

	res := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("id = ?", id).
		Where("status = ?", StatusPending).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&LeaveRequest{}, "id = ?", id).Error
}
