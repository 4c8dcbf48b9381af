package auth_test

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"go-hrms/internal/auth"
	autherrors "go-hrms/internal/auth/errors"
	"go-hrms/internal/employee"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeEmployeeRepository struct {
	byEmail map[string]*employee.Employee
	byID    map[string]*employee.Employee
	created []*employee.Employee
}

func newFakeEmployeeRepository() *fakeEmployeeRepository {
	return &fakeEmployeeRepository{
		byEmail: map[string]*employee.Employee{},
		byID:    map[string]*employee.Employee{},
	}
}

func (f *fakeEmployeeRepository) add(e *employee.Employee) {
	f.byEmail[e.Email] = e
	f.byID[e.ID.String()] = e
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository { return f }
func (f *fakeEmployeeRepository) Create(ctx context.Context, e *employee.Employee) error {
	f.created = append(f.created, e)
	f.add(e)
	return nil
}
func (f *fakeEmployeeRepository) CreateBatch(ctx context.Context, list []*employee.Employee) error {
	return nil
}
func (f *fakeEmployeeRepository) FindAll(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}
func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeEmployeeRepository) FindByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	if e, ok := f.byEmail[email]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeEmployeeRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	_, ok := f.byID[id]
	return ok, nil
}
func (f *fakeEmployeeRepository) Update(ctx context.Context, e *employee.Employee) error { return nil }
func (f *fakeEmployeeRepository) Delete(ctx context.Context, id string) error            { return nil }
func (f *fakeEmployeeRepository) ApplyLeaveDeduction(ctx context.Context, employeeID, leaveType string, days int) (bool, error) {
	return true, nil
}

type fakeCounter struct{ next int64 }

func (f *fakeCounter) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

func newAuthService(t *testing.T) (*fakeEmployeeRepository, sqlmock.Sqlmock, auth.Service) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := newFakeEmployeeRepository()
	svc := auth.NewService(db, repo, &fakeCounter{})
	return repo, sqlMock, svc
}

func activeEmployee(t *testing.T, password string) *employee.Employee {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	assert.NoError(t, err)
	return &employee.Employee{
		ID:             uuid.New(),
		EmployeeNumber: "EMP-000001",
		FirstName:      "Priya",
		Email:          "priya@example.com",
		PasswordHash:   string(hash),
		Role:           "employee",
		Status:         employee.StatusActive,
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success assigns number and default role", func(t *testing.T) {
		repo, sqlMock, svc := newAuthService(t)
		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()

		resp, err := svc.Register(ctx, auth.RegisterRequest{
			FirstName: "Priya",
			Email:     "Priya@Example.com",
			Password:  "s3cret-pass",
		})

		assert.NoError(t, err)
		assert.Equal(t, "EMP-000001", resp.EmployeeNumber)
		assert.Equal(t, "priya@example.com", resp.Email)
		assert.Equal(t, "employee", resp.Role)
		assert.Len(t, repo.created, 1)
		assert.NoError(t, bcrypt.CompareHashAndPassword(
			[]byte(repo.created[0].PasswordHash), []byte("s3cret-pass")))
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("negative duplicate email", func(t *testing.T) {
		repo, sqlMock, svc := newAuthService(t)
		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()

		repo.add(activeEmployee(t, "whatever-pass"))

		_, err := svc.Register(ctx, auth.RegisterRequest{
			FirstName: "Priya",
			Email:     "priya@example.com",
			Password:  "s3cret-pass",
		})

		assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyRegistered)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success issues tokens with identity claims", func(t *testing.T) {
		repo, _, svc := newAuthService(t)
		empl := activeEmployee(t, "s3cret-pass")
		repo.add(empl)

		accessToken, refreshToken, resp, err := svc.Login(ctx, "priya@example.com", "s3cret-pass")

		assert.NoError(t, err)
		assert.NotEmpty(t, accessToken)
		assert.NotEmpty(t, refreshToken)
		assert.Equal(t, empl.ID.String(), resp.ID)

		token, err := jwt.Parse(accessToken, func(token *jwt.Token) (interface{}, error) {
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		assert.NoError(t, err)
		claims := token.Claims.(jwt.MapClaims)
		assert.Equal(t, empl.ID.String(), claims["user_id"])
		assert.Equal(t, "employee", claims["role"])
	})

	t.Run("negative wrong password", func(t *testing.T) {
		repo, _, svc := newAuthService(t)
		repo.add(activeEmployee(t, "s3cret-pass"))

		_, _, _, err := svc.Login(ctx, "priya@example.com", "wrong-pass")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("negative unknown email", func(t *testing.T) {
		_, _, svc := newAuthService(t)

		_, _, _, err := svc.Login(ctx, "nobody@example.com", "s3cret-pass")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("negative inactive account", func(t *testing.T) {
		repo, _, svc := newAuthService(t)
		empl := activeEmployee(t, "s3cret-pass")
		empl.Status = employee.StatusInactive
		repo.add(empl)

		_, _, _, err := svc.Login(ctx, "priya@example.com", "s3cret-pass")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("success round trip", func(t *testing.T) {
		repo, _, svc := newAuthService(t)
		empl := activeEmployee(t, "s3cret-pass")
		repo.add(empl)

		_, refreshToken, _, err := svc.Login(ctx, "priya@example.com", "s3cret-pass")
		assert.NoError(t, err)

		newAccess, newRefresh, resp, err := svc.RefreshToken(ctx, refreshToken)

		assert.NoError(t, err)
		assert.NotEmpty(t, newAccess)
		assert.NotEmpty(t, newRefresh)
		assert.Equal(t, empl.ID.String(), resp.ID)
	})

	t.Run("negative garbage token", func(t *testing.T) {
		_, _, svc := newAuthService(t)

		_, _, _, err := svc.RefreshToken(ctx, "not.a.token")

		assert.ErrorIs(t, err, autherrors.ErrInvalidRefreshToken)
	})
}

func TestAuthService_GetMe(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo, _, svc := newAuthService(t)
		empl := activeEmployee(t, "s3cret-pass")
		repo.add(empl)

		resp, err := svc.GetMe(ctx, empl.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, empl.Email, resp.Email)
	})

	t.Run("negative invalid id", func(t *testing.T) {
		_, _, svc := newAuthService(t)

		_, err := svc.GetMe(ctx, "nope")

		assert.ErrorIs(t, err, autherrors.ErrInvalidUserID)
	})

	t.Run("negative unknown id", func(t *testing.T) {
		_, _, svc := newAuthService(t)

		_, err := svc.GetMe(ctx, uuid.New().String())

		assert.ErrorIs(t, err, autherrors.ErrUserNotFound)
	})
}
