package employee

import (
	"context"
	"database/sql"
	"time"

	"go-hrms/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *Employee) error
	CreateBatch(ctx context.Context, list []*Employee) error
	FindAll(ctx context.Context) ([]Employee, error)
	FindByID(ctx context.Context, id string) (*Employee, error)
	FindByEmail(ctx context.Context, email string) (*Employee, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, e *Employee) error
	Delete(ctx context.Context, id string) error
	ApplyLeaveDeduction(ctx context.Context, employeeID, leaveType string, days int) (bool, error)
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

func (r *repository) Create(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) CreateBatch(ctx context.Context, list []*Employee) error {
	return r.db.WithContext(ctx).CreateInBatches(list, 100).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	var emps []Employee
	err := r.db.WithContext(ctx).
		Order("employee_number ASC").
		Find(&emps).Error
	return emps, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	return &e, err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Employee, error) {
	var e Employee
	err := r.db.WithContext(ctx).First(&e, "email = ?", email).Error
	return &e, err
}

func (r *repository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, e *Employee) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Employee{}, "id = ?", id).Error
}

// ApplyLeaveDeduction atomically charges an approved leave against the
// employee record. Deductible types are guarded with a balance predicate so
// the write is a no-op (false) when the balance would go negative; LWP only
// bumps total_leave_taken. The conditional UPDATE also serializes concurrent
// approvals for the same employee at the database.
func (r *repository) ApplyLeaveDeduction(ctx context.Context, employeeID, leaveType string, days int) (bool, error) {
	updates := map[string]any{
		"total_leave_taken": gorm.Expr("total_leave_taken + ?", days),
		"updated_at":        time.Now().UTC(),
	}

	q := r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("id = ?", employeeID)

	switch leaveType {
	case LeaveTypeSick:
		q = q.Where("sick_leave >= ?", days)
		updates["sick_leave"] = gorm.Expr("sick_leave - ?", days)
	case LeaveTypeCasual:
		q = q.Where("casual_leave >= ?", days)
		updates["casual_leave"] = gorm.Expr("casual_leave - ?", days)
	}

	res := q.Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
