package leavereport_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"markpedia-os/internal/leavereport"
	leavereporterrors "markpedia-os/internal/leavereport/errors"
	reportMock "markpedia-os/internal/leavereport/mock"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type reportEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func setupReportHandler(t *testing.T) (*reportMock.MockService, *leavereport.Handler) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	svc := reportMock.NewMockService(ctrl)
	return svc, leavereport.NewHandler(svc)
}

func reportContext(target string, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	c.Params = params
	c.Set("company_id", companyID)
	return c, w
}

func TestReportHandler_Overview(t *testing.T) {
	svc, h := setupReportHandler(t)
	svc.EXPECT().Overview(gomock.Any(), companyID).Return(leavereport.OverviewResponse{TotalRequests: 3, PendingCount: 1}, nil)

	c, w := reportContext("/leave-requests/stats/overview", nil)
	h.Overview(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var env reportEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.True(t, env.Ok)
	var got leavereport.OverviewResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, 3, got.TotalRequests)
	assert.Equal(t, 1, got.PendingCount)
}

func TestReportHandler_DepartmentSummary(t *testing.T) {
	svc, h := setupReportHandler(t)
	svc.EXPECT().DepartmentSummary(gomock.Any(), companyID).Return(leavereport.DepartmentSummaryResponse{
		Departments: []leavereport.DepartmentSummary{},
		Totals:      leavereport.DepartmentSummary{DepartmentID: "all"},
	}, nil)

	c, w := reportContext("/leave-requests/stats/department/summary", nil)
	h.DepartmentSummary(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"departments":[]`)
}

func TestReportHandler_Monthly(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc, h := setupReportHandler(t)
		svc.EXPECT().Monthly(gomock.Any(), companyID, "2024-03").
			Return(leavereport.MonthlyReportResponse{Month: "2024-03", WorkingDays: 23}, nil)

		c, w := reportContext("/leave-requests/stats/monthly/2024-03", gin.Params{{Key: "month", Value: "2024-03"}})
		h.Monthly(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"working_days":23`)
	})

	t.Run("invalid month", func(t *testing.T) {
		svc, h := setupReportHandler(t)
		svc.EXPECT().Monthly(gomock.Any(), companyID, "march").
			Return(leavereport.MonthlyReportResponse{}, leavereporterrors.ErrInvalidMonth)

		c, w := reportContext("/leave-requests/stats/monthly/march", gin.Params{{Key: "month", Value: "march"}})
		h.Monthly(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var env reportEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		require.NotNil(t, env.Error)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})
}

func TestReportHandler_Calendar(t *testing.T) {
	svc, h := setupReportHandler(t)
	svc.EXPECT().Calendar(gomock.Any(), companyID, "2024-02").
		Return(leavereport.CalendarResponse{Month: "2024-02", Days: []leavereport.CalendarDay{{Date: "2024-02-01", IsWorkingDay: true, Entries: []leavereport.CalendarEntry{}}}}, nil)

	c, w := reportContext("/leave-requests/stats/calendar/2024-02", gin.Params{{Key: "month", Value: "2024-02"}})
	h.Calendar(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"date":"2024-02-01"`)
}

func TestReportHandler_ExportMonthly(t *testing.T) {
	t.Run("attachment", func(t *testing.T) {
		svc, h := setupReportHandler(t)
		svc.EXPECT().ExportMonthly(gomock.Any(), companyID, "2024-03").Return([]byte("PK\x03\x04"), nil)

		c, w := reportContext("/leave-requests/stats/monthly/2024-03/export", gin.Params{{Key: "month", Value: "2024-03"}})
		h.ExportMonthly(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="leave-report-2024-03.xlsx"`, w.Header().Get("Content-Disposition"))
		assert.Equal(t, "PK\x03\x04", w.Body.String())
	})

	t.Run("failure uses the json envelope", func(t *testing.T) {
		svc, h := setupReportHandler(t)
		svc.EXPECT().ExportMonthly(gomock.Any(), companyID, "2024-03").Return(nil, leavereporterrors.ErrExportFailed)

		c, w := reportContext("/leave-requests/stats/monthly/2024-03/export", gin.Params{{Key: "month", Value: "2024-03"}})
		h.ExportMonthly(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Empty(t, w.Header().Get("Content-Disposition"))
	})
}
