package leave_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-hrms/internal/employee"
	"go-hrms/internal/leave"
	leaveerrors "go-hrms/internal/leave/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeLeaveService struct {
	requestFn       func(ctx context.Context, actorID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error)
	updateStatusFn  func(ctx context.Context, leaveID, approverID string, req leave.UpdateLeaveStatusRequest) (leave.LeaveResponse, error)
	getStatusByIDFn func(ctx context.Context, id string) (leave.LeaveStatusResponse, error)
	getAllFn        func(ctx context.Context) ([]leave.LeaveResponse, error)
	getMineFn       func(ctx context.Context, actorID string) ([]leave.LeaveResponse, error)
	getByIDFn       func(ctx context.Context, id string) (leave.LeaveResponse, error)
	deleteFn        func(ctx context.Context, id string) error
}

func (f *fakeLeaveService) Request(ctx context.Context, actorID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	return f.requestFn(ctx, actorID, req)
}
func (f *fakeLeaveService) UpdateStatus(ctx context.Context, leaveID, approverID string, req leave.UpdateLeaveStatusRequest) (leave.LeaveResponse, error) {
	return f.updateStatusFn(ctx, leaveID, approverID, req)
}
func (f *fakeLeaveService) GetStatusByID(ctx context.Context, id string) (leave.LeaveStatusResponse, error) {
	return f.getStatusByIDFn(ctx, id)
}
func (f *fakeLeaveService) GetAll(ctx context.Context) ([]leave.LeaveResponse, error) {
	return f.getAllFn(ctx)
}
func (f *fakeLeaveService) GetMine(ctx context.Context, actorID string) ([]leave.LeaveResponse, error) {
	return f.getMineFn(ctx, actorID)
}
func (f *fakeLeaveService) GetByID(ctx context.Context, id string) (leave.LeaveResponse, error) {
	return f.getByIDFn(ctx, id)
}
func (f *fakeLeaveService) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}

func TestLeaveHandler_Request(t *testing.T) {
	t.Run("success takes the employee from the session", func(t *testing.T) {
		actorID := uuid.New().String()

		svc := &fakeLeaveService{
			requestFn: func(ctx context.Context, aid string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, actorID, aid)
				assert.Equal(t, employee.LeaveTypeCasual, req.LeaveType)
				return leave.LeaveResponse{
					ID:         uuid.New().String(),
					EmployeeID: aid,
					LeaveType:  req.LeaveType,
					StartDate:  req.StartDate,
					EndDate:    req.EndDate,
					LeaveDays:  2,
					Status:     leave.StatusPending,
				}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"leave_type":"casualLeave","start_date":"2026-03-10","end_date":"2026-03-11","reason":"family function"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("user_id", actorID)

		h.Request(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got leave.LeaveResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, actorID, got.EmployeeID)
		assert.Equal(t, 2, got.LeaveDays)
		assert.Equal(t, leave.StatusPending, got.Status)
	})

	t.Run("negative validation error", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Request(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.NotNil(t, env.Error)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("negative service error maps through apperror", func(t *testing.T) {
		svc := &fakeLeaveService{
			requestFn: func(ctx context.Context, actorID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrInsufficientBalance
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"leave_type":"sickLeave","start_date":"2026-03-10","end_date":"2026-03-11"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Set("user_id", uuid.New().String())

		h.Request(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "INSUFFICIENT_BALANCE", env.Error.Code)
	})
}

func TestLeaveHandler_UpdateStatus(t *testing.T) {
	t.Run("approver comes from the session, never the body", func(t *testing.T) {
		sessionUser := uuid.New().String()
		bodyApprover := uuid.New().String()
		leaveID := uuid.New().String()

		svc := &fakeLeaveService{
			updateStatusFn: func(ctx context.Context, id, approverID string, req leave.UpdateLeaveStatusRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, leaveID, id)
				assert.Equal(t, sessionUser, approverID)
				assert.NotEqual(t, bodyApprover, approverID)
				return leave.LeaveResponse{
					ID:     id,
					Status: leave.StatusApproved,
				}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"status":"approved","approver_id":"` + bodyApprover + `"}`
		c.Request = httptest.NewRequest(http.MethodPut, "/leaves/"+leaveID+"/status", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: leaveID}}
		c.Set("user_id", sessionUser)

		h.UpdateStatus(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("negative already reviewed returns conflict", func(t *testing.T) {
		svc := &fakeLeaveService{
			updateStatusFn: func(ctx context.Context, id, approverID string, req leave.UpdateLeaveStatusRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrAlreadyReviewed
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPut, "/leaves/x/status", strings.NewReader(`{"status":"approved"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
		c.Set("user_id", uuid.New().String())

		h.UpdateStatus(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "CONFLICT", env.Error.Code)
	})

	t.Run("negative unknown error becomes internal", func(t *testing.T) {
		svc := &fakeLeaveService{
			updateStatusFn: func(ctx context.Context, id, approverID string, req leave.UpdateLeaveStatusRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, errors.New("boom")
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPut, "/leaves/x/status", strings.NewReader(`{"status":"approved"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
		c.Set("user_id", uuid.New().String())

		h.UpdateStatus(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestLeaveHandler_GetStatusByID(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		leaveID := uuid.New().String()
		svc := &fakeLeaveService{
			getStatusByIDFn: func(ctx context.Context, id string) (leave.LeaveStatusResponse, error) {
				assert.Equal(t, leaveID, id)
				return leave.LeaveStatusResponse{
					ID:     id,
					Status: leave.StatusPending,
					Employee: &leave.PersonSummary{
						ID:        uuid.New().String(),
						FirstName: "Priya",
					},
				}, nil
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves/"+leaveID+"/status", nil)
		c.Params = gin.Params{{Key: "id", Value: leaveID}}

		h.GetStatusByID(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		var got leave.LeaveStatusResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, "Priya", got.Employee.FirstName)
	})

	t.Run("negative not found", func(t *testing.T) {
		svc := &fakeLeaveService{
			getStatusByIDFn: func(ctx context.Context, id string) (leave.LeaveStatusResponse, error) {
				return leave.LeaveStatusResponse{}, leaveerrors.ErrLeaveNotFound
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves/x/status", nil)
		c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}

		h.GetStatusByID(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
