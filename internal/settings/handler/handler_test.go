package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollcall/internal/settings"
	"rollcall/internal/settings/store"
	"rollcall/pkg/testutil"
)

func newTestHandler() *Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := settings.NewService(store.NewInMemory(), settings.WithLogger(logger))
	return New(service, logger)
}

func TestHandleSaveAndGet(t *testing.T) {
	handler := newTestHandler()

	req := testutil.NewJSONRequest(t, http.MethodPut, "/settings", SaveRequest{
		StartTime:   "08:30",
		EndTime:     "09:00",
		Departments: []string{"HR"},
	})
	req = testutil.WithAdmin(req, "EMP001")
	rr := testutil.DoRequest(http.HandlerFunc(handler.HandleSave), req)
	require.Equal(t, http.StatusOK, rr.Code)

	getReq := testutil.NewRequest(t, http.MethodGet, "/settings")
	getReq = testutil.WithEmployee(getReq, "EMP002")
	rr = testutil.DoRequest(http.HandlerFunc(handler.HandleGet), getReq)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp SettingsResponse
	testutil.DecodeJSON(t, rr, &resp)
	assert.Equal(t, "08:30", resp.StartTime)
	assert.Equal(t, "09:00", resp.EndTime)
	assert.Equal(t, []string{"HR"}, resp.Departments)
}

func TestHandleSaveNonAdminForbidden(t *testing.T) {
	handler := newTestHandler()

	req := testutil.NewJSONRequest(t, http.MethodPut, "/settings", SaveRequest{
		StartTime:   "08:30",
		EndTime:     "09:00",
		Departments: []string{"HR"},
	})
	req = testutil.WithEmployee(req, "EMP001")
	rr := testutil.DoRequest(http.HandlerFunc(handler.HandleSave), req)
	testutil.AssertErrorEnvelope(t, rr, http.StatusForbidden, "forbidden")
}

func TestHandleSaveInvalidWindow(t *testing.T) {
	handler := newTestHandler()

	req := testutil.NewJSONRequest(t, http.MethodPut, "/settings", SaveRequest{
		StartTime:   "25:99",
		EndTime:     "09:00",
		Departments: []string{"HR"},
	})
	req = testutil.WithAdmin(req, "EMP001")
	rr := testutil.DoRequest(http.HandlerFunc(handler.HandleSave), req)
	testutil.AssertErrorEnvelope(t, rr, http.StatusBadRequest, "validation_error")
}

func TestHandleGetUnconfigured(t *testing.T) {
	handler := newTestHandler()

	req := testutil.NewRequest(t, http.MethodGet, "/settings")
	req = testutil.WithEmployee(req, "EMP001")
	rr := testutil.DoRequest(http.HandlerFunc(handler.HandleGet), req)
	testutil.AssertErrorEnvelope(t, rr, http.StatusInternalServerError, "configuration_error")
}
