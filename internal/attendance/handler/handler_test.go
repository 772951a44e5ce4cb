package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"rollcall/internal/attendance"
	"rollcall/internal/attendance/handler/mocks"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/requestcontext"
)

type AttendanceHandlerSuite struct {
	suite.Suite
}

func TestAttendanceHandlerSuite(t *testing.T) {
	suite.Run(t, new(AttendanceHandlerSuite))
}

func newTestHandler(t *testing.T) (*Handler, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(mockService, time.UTC, logger), mockService
}

func authenticate(req *http.Request, employeeID string, roles ...string) *http.Request {
	ctx := requestcontext.WithEmployeeID(req.Context(), employeeID)
	if len(roles) > 0 {
		ctx = requestcontext.WithRoles(ctx, roles)
	}
	return req.WithContext(ctx)
}

func (s *AttendanceHandlerSuite) TestHandleMark() {
	handler, mockService := newTestHandler(s.T())

	date := time.Date(2026, 3, 2, 8, 45, 0, 0, time.UTC)
	mockService.EXPECT().Mark(gomock.Any(), attendance.MarkRequest{
		EmployeeID: "EMP001",
		Name:       "Alice Wanjiru",
		Department: "Engineering",
	}).Return(&attendance.Record{
		ID:         uuid.New(),
		EmployeeID: "EMP001",
		Name:       "Alice Wanjiru",
		Department: "Engineering",
		Status:     attendance.StatusPresent,
		Date:       date,
	}, nil)

	body, err := json.Marshal(MarkRequest{
		EmployeeID: "EMP001",
		Name:       "Alice Wanjiru",
		Department: "Engineering",
	})
	require.NoError(s.T(), err)

	req := httptest.NewRequest(http.MethodPost, "/attendance", bytes.NewReader(body))
	req = authenticate(req, "EMP001")
	w := httptest.NewRecorder()
	handler.HandleMark(w, req)

	assert.Equal(s.T(), http.StatusCreated, w.Code)
	var resp RecordResponse
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), "EMP001", resp.EmployeeID)
	assert.Equal(s.T(), "Present", resp.Status)
	assert.Equal(s.T(), date.Format(time.RFC3339), resp.Date)
}

func (s *AttendanceHandlerSuite) TestHandleMarkForAnotherEmployeeForbidden() {
	handler, _ := newTestHandler(s.T())

	body, _ := json.Marshal(MarkRequest{EmployeeID: "EMP002", Department: "Engineering"})
	req := httptest.NewRequest(http.MethodPost, "/attendance", bytes.NewReader(body))
	req = authenticate(req, "EMP001")
	w := httptest.NewRecorder()
	handler.HandleMark(w, req)

	assert.Equal(s.T(), http.StatusForbidden, w.Code)
}

func (s *AttendanceHandlerSuite) TestHandleMarkAdminMarksAnyone() {
	handler, mockService := newTestHandler(s.T())

	mockService.EXPECT().Mark(gomock.Any(), gomock.Any()).Return(&attendance.Record{
		ID:         uuid.New(),
		EmployeeID: "EMP002",
		Status:     attendance.StatusOnLeave,
	}, nil)

	body, _ := json.Marshal(MarkRequest{
		EmployeeID: "EMP002",
		Department: "Engineering",
		Status:     "On Leave",
	})
	req := httptest.NewRequest(http.MethodPost, "/attendance", bytes.NewReader(body))
	req = authenticate(req, "EMP099", requestcontext.RoleAdmin)
	w := httptest.NewRecorder()
	handler.HandleMark(w, req)

	assert.Equal(s.T(), http.StatusCreated, w.Code)
}

func (s *AttendanceHandlerSuite) TestHandleMarkInvalidJSON() {
	handler, _ := newTestHandler(s.T())

	req := httptest.NewRequest(http.MethodPost, "/attendance", bytes.NewBufferString("{not json"))
	req = authenticate(req, "EMP001")
	w := httptest.NewRecorder()
	handler.HandleMark(w, req)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	var resp map[string]string
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), "bad_request", resp["error"])
}

func (s *AttendanceHandlerSuite) TestHandleMarkUnknownStatus() {
	handler, _ := newTestHandler(s.T())

	body, _ := json.Marshal(MarkRequest{
		EmployeeID: "EMP001",
		Department: "Engineering",
		Status:     "Vacationing",
	})
	req := httptest.NewRequest(http.MethodPost, "/attendance", bytes.NewReader(body))
	req = authenticate(req, "EMP001")
	w := httptest.NewRecorder()
	handler.HandleMark(w, req)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	var resp map[string]string
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), "validation_error", resp["error"])
}

func (s *AttendanceHandlerSuite) TestHandleMarkDuplicateConflict() {
	handler, mockService := newTestHandler(s.T())

	mockService.EXPECT().Mark(gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeConflict, "attendance already marked for today"))

	body, _ := json.Marshal(MarkRequest{EmployeeID: "EMP001", Department: "Engineering"})
	req := httptest.NewRequest(http.MethodPost, "/attendance", bytes.NewReader(body))
	req = authenticate(req, "EMP001")
	w := httptest.NewRecorder()
	handler.HandleMark(w, req)

	assert.Equal(s.T(), http.StatusConflict, w.Code)
	var resp map[string]string
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), "conflict", resp["error"])
	assert.Equal(s.T(), "attendance already marked for today", resp["error_description"])
}

func (s *AttendanceHandlerSuite) TestHandleDayDefaultsToCaller() {
	handler, mockService := newTestHandler(s.T())

	mockService.EXPECT().ForDay(gomock.Any(), "EMP001", gomock.Any()).
		Return(&attendance.Record{ID: uuid.New(), EmployeeID: "EMP001", Status: attendance.StatusPresent}, nil)

	req := httptest.NewRequest(http.MethodGet, "/attendance/day", nil)
	req = authenticate(req, "EMP001")
	w := httptest.NewRecorder()
	handler.HandleDay(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code)
}

func (s *AttendanceHandlerSuite) TestHandleDayExplicitDate() {
	handler, mockService := newTestHandler(s.T())

	want := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	mockService.EXPECT().ForDay(gomock.Any(), "EMP001", want).
		Return(&attendance.Record{ID: uuid.New(), EmployeeID: "EMP001"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/attendance/day?employeeId=EMP001&date=2026-03-02", nil)
	req = authenticate(req, "EMP001")
	w := httptest.NewRecorder()
	handler.HandleDay(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code)
}

func (s *AttendanceHandlerSuite) TestHandleDayBadDate() {
	handler, _ := newTestHandler(s.T())

	req := httptest.NewRequest(http.MethodGet, "/attendance/day?date=03-02-2026", nil)
	req = authenticate(req, "EMP001")
	w := httptest.NewRecorder()
	handler.HandleDay(w, req)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *AttendanceHandlerSuite) TestHandleHistory() {
	handler, mockService := newTestHandler(s.T())

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	mockService.EXPECT().ForRange(gomock.Any(), "EMP001", from, to).
		Return([]*attendance.Record{
			{ID: uuid.New(), EmployeeID: "EMP001", Status: attendance.StatusPresent},
			{ID: uuid.New(), EmployeeID: "EMP001", Status: attendance.StatusLate},
		}, nil)

	req := httptest.NewRequest(http.MethodGet,
		"/attendance/history?employeeId=EMP001&startDate=2026-03-01&endDate=2026-03-07", nil)
	req = authenticate(req, "EMP001")
	w := httptest.NewRecorder()
	handler.HandleHistory(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code)
	var resp []RecordResponse
	require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(s.T(), resp, 2)
	assert.Equal(s.T(), "Present", resp[0].Status)
	assert.Equal(s.T(), "Late", resp[1].Status)
}

func (s *AttendanceHandlerSuite) TestHandleHistoryMissingDates() {
	handler, _ := newTestHandler(s.T())

	req := httptest.NewRequest(http.MethodGet, "/attendance/history?employeeId=EMP001", nil)
	req = authenticate(req, "EMP001")
	w := httptest.NewRecorder()
	handler.HandleHistory(w, req)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *AttendanceHandlerSuite) TestHandleListEmptyLedgerIsEmptyArray() {
	handler, mockService := newTestHandler(s.T())

	mockService.EXPECT().All(gomock.Any()).Return(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/attendance", nil)
	req = authenticate(req, "EMP001")
	w := httptest.NewRecorder()
	handler.HandleList(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code)
	assert.JSONEq(s.T(), "[]", w.Body.String())
}
