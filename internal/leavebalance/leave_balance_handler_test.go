package leavebalance_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"markpedia-os/internal/leavebalance"
	leavebalanceerrors "markpedia-os/internal/leavebalance/errors"
	leavebalanceMock "markpedia-os/internal/leavebalance/mock"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
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
	require.NoError(t, json.Unmarshal(body, &env))
	return env
}

func TestLeaveBalanceHandler_Get(t *testing.T) {
	gin.SetMode(gin.TestMode)
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := leavebalanceMock.NewMockService(ctrl)
		svc.EXPECT().GetByEmployee(gomock.Any(), companyID, employeeID).Return(leavebalance.LeaveBalanceResponse{
			EmployeeID: employeeID,
			Annual:     decimal.NewFromInt(15),
		}, nil)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leave-requests/employee/"+employeeID+"/balance", nil)
		c.Params = gin.Params{{Key: "employee_id", Value: employeeID}}
		c.Set("company_id", companyID)

		leavebalance.NewHandler(svc).Get(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got leavebalance.LeaveBalanceResponse
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.True(t, decimal.NewFromInt(15).Equal(got.Annual))
	})

	t.Run("negative not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := leavebalanceMock.NewMockService(ctrl)
		svc.EXPECT().GetByEmployee(gomock.Any(), companyID, employeeID).Return(leavebalance.LeaveBalanceResponse{}, leavebalanceerrors.ErrBalanceNotFound)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leave-requests/employee/"+employeeID+"/balance", nil)
		c.Params = gin.Params{{Key: "employee_id", Value: employeeID}}
		c.Set("company_id", companyID)

		leavebalance.NewHandler(svc).Get(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		require.NotNil(t, env.Error)
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
	})
}

func TestLeaveBalanceHandler_Upsert(t *testing.T) {
	gin.SetMode(gin.TestMode)
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	actorID := uuid.New().String()

	t.Run("success uses user_id_validated fallback", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := leavebalanceMock.NewMockService(ctrl)
		svc.EXPECT().
			Upsert(gomock.Any(), companyID, actorID, employeeID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _, _ string, req leavebalance.UpsertLeaveBalanceRequest) (leavebalance.LeaveBalanceResponse, error) {
				require.NotNil(t, req.Annual)
				assert.Equal(t, "12.5", req.Annual.String())
				assert.Nil(t, req.Sick)
				return leavebalance.LeaveBalanceResponse{Annual: *req.Annual}, nil
			})

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPut, "/leave-requests/employee/"+employeeID+"/balance", strings.NewReader(`{"annual":12.5}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "employee_id", Value: employeeID}}
		c.Set("company_id", companyID)
		c.Set("user_id_validated", actorID)

		leavebalance.NewHandler(svc).Upsert(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative malformed body", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := leavebalanceMock.NewMockService(ctrl)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPut, "/leave-requests/employee/"+employeeID+"/balance", strings.NewReader(`{"annual":"abc"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "employee_id", Value: employeeID}}

		leavebalance.NewHandler(svc).Upsert(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		require.NotNil(t, env.Error)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("negative invalid amount", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := leavebalanceMock.NewMockService(ctrl)
		svc.EXPECT().Upsert(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(leavebalance.LeaveBalanceResponse{}, leavebalanceerrors.ErrInvalidAmount)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPut, "/leave-requests/employee/"+employeeID+"/balance", strings.NewReader(`{"annual":-1}`))
		c.Request.Header.Set("Content-Type", "application/json")
		c.Params = gin.Params{{Key: "employee_id", Value: employeeID}}
		c.Set("employee_id", actorID)

		leavebalance.NewHandler(svc).Upsert(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLeaveBalanceHandler_History(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	svc := leavebalanceMock.NewMockService(ctrl)
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	svc.EXPECT().History(gomock.Any(), companyID, employeeID, 10).Return([]leavebalance.LeaveBalanceEntryResponse{
		{ID: uuid.New().String(), Kind: leavebalance.EntryKindDebit},
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/leave-requests/employee/"+employeeID+"/balance/history?limit=10", nil)
	c.Params = gin.Params{{Key: "employee_id", Value: employeeID}}
	c.Set("company_id", companyID)

	leavebalance.NewHandler(svc).History(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w.Body.Bytes())
	var got []leavebalance.LeaveBalanceEntryResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Len(t, got, 1)
}
