package attendance_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"rollcall/internal/attendance"
	"rollcall/internal/attendance/mocks"
	"rollcall/internal/audit"
	"rollcall/internal/directory"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/platform/sentinel"
	"rollcall/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite

	ctrl     *gomock.Controller
	store    *mocks.MockStore
	settings *mocks.MockSettingsProvider
	dir      *mocks.MockEmployeeDirectory
	service  *attendance.Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockStore(s.ctrl)
	s.settings = mocks.NewMockSettingsProvider(s.ctrl)
	s.dir = mocks.NewMockEmployeeDirectory(s.ctrl)
	s.service = attendance.NewService(s.store, s.settings, s.dir, time.UTC,
		attendance.WithLogger(slog.New(slog.DiscardHandler)),
	)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) activeEmployee() *directory.Employee {
	return &directory.Employee{
		EmployeeID: "EMP001",
		FirstName:  "Alice",
		LastName:   "Wanjiru",
		Department: "Engineering",
		Status:     directory.StatusActive,
	}
}

func (s *ServiceSuite) windowConfig() attendance.WindowConfig {
	return attendance.WindowConfig{
		Window:      attendance.Window{Start: "08:30", End: "09:00"},
		Departments: []string{"Engineering", "Finance"},
	}
}

func markContext(at time.Time) context.Context {
	ctx := requestcontext.WithTime(context.Background(), at)
	return requestcontext.WithEmployeeID(ctx, "EMP001")
}

func (s *ServiceSuite) TestMarkInsideWindowDerivedPresent() {
	at := time.Date(2026, 3, 2, 8, 45, 0, 0, time.UTC)

	s.dir.EXPECT().FindActive(gomock.Any(), "EMP001").Return(s.activeEmployee(), nil)
	s.settings.EXPECT().WindowConfig(gomock.Any()).Return(s.windowConfig(), nil)
	s.store.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, record *attendance.Record) error {
			s.Equal(attendance.StatusPresent, record.Status)
			s.Equal(at, record.Date)
			s.NotEqual(uuid.Nil, record.ID)
			return nil
		})

	record, err := s.service.Mark(markContext(at), attendance.MarkRequest{
		EmployeeID: "EMP001",
		Department: "Engineering",
	})
	s.Require().NoError(err)
	s.Equal(attendance.StatusPresent, record.Status)
	s.Equal("Alice Wanjiru", record.Name)
}

func (s *ServiceSuite) TestMarkOutsideWindowDerivedAbsent() {
	at := time.Date(2026, 3, 2, 9, 1, 0, 0, time.UTC)

	s.dir.EXPECT().FindActive(gomock.Any(), "EMP001").Return(s.activeEmployee(), nil)
	s.settings.EXPECT().WindowConfig(gomock.Any()).Return(s.windowConfig(), nil)
	s.store.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

	record, err := s.service.Mark(markContext(at), attendance.MarkRequest{
		EmployeeID: "EMP001",
		Department: "Engineering",
	})
	s.Require().NoError(err)
	s.Equal(attendance.StatusAbsent, record.Status)
}

func (s *ServiceSuite) TestMarkManualOverrideBypassesWindow() {
	at := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)

	s.dir.EXPECT().FindActive(gomock.Any(), "EMP001").Return(s.activeEmployee(), nil)
	s.settings.EXPECT().WindowConfig(gomock.Any()).Return(s.windowConfig(), nil)
	s.store.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

	record, err := s.service.Mark(markContext(at), attendance.MarkRequest{
		EmployeeID: "EMP001",
		Department: "Engineering",
		Status:     attendance.StatusWorkFromHome,
	})
	s.Require().NoError(err)
	s.Equal(attendance.StatusWorkFromHome, record.Status)
}

func (s *ServiceSuite) TestMarkClientAssertedPresentIsRederived() {
	// Present is not a manual override. A client asserting it outside the
	// window gets the derived Absent instead.
	at := time.Date(2026, 3, 2, 23, 0, 0, 0, time.UTC)

	s.dir.EXPECT().FindActive(gomock.Any(), "EMP001").Return(s.activeEmployee(), nil)
	s.settings.EXPECT().WindowConfig(gomock.Any()).Return(s.windowConfig(), nil)
	s.store.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

	record, err := s.service.Mark(markContext(at), attendance.MarkRequest{
		EmployeeID: "EMP001",
		Department: "Engineering",
		Status:     attendance.StatusPresent,
	})
	s.Require().NoError(err)
	s.Equal(attendance.StatusAbsent, record.Status)
}

func (s *ServiceSuite) TestMarkDuplicateDayConflicts() {
	at := time.Date(2026, 3, 2, 8, 45, 0, 0, time.UTC)

	s.dir.EXPECT().FindActive(gomock.Any(), "EMP001").Return(s.activeEmployee(), nil)
	s.settings.EXPECT().WindowConfig(gomock.Any()).Return(s.windowConfig(), nil)
	s.store.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(sentinel.ErrConflict)

	_, err := s.service.Mark(markContext(at), attendance.MarkRequest{
		EmployeeID: "EMP001",
		Department: "Engineering",
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	s.Equal("attendance already marked for today", dErrors.DescriptionOf(err))
}

func (s *ServiceSuite) TestMarkInactiveEmployeeRejected() {
	at := time.Date(2026, 3, 2, 8, 45, 0, 0, time.UTC)

	s.dir.EXPECT().FindActive(gomock.Any(), "EMP001").
		Return(nil, dErrors.New(dErrors.CodeNotFound, "employee not found"))

	_, err := s.service.Mark(markContext(at), attendance.MarkRequest{
		EmployeeID: "EMP001",
		Department: "Engineering",
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestMarkUnknownDepartmentRejected() {
	at := time.Date(2026, 3, 2, 8, 45, 0, 0, time.UTC)

	s.dir.EXPECT().FindActive(gomock.Any(), "EMP001").Return(s.activeEmployee(), nil)
	s.settings.EXPECT().WindowConfig(gomock.Any()).Return(s.windowConfig(), nil)

	_, err := s.service.Mark(markContext(at), attendance.MarkRequest{
		EmployeeID: "EMP001",
		Department: "Sales",
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestMarkMalformedWindowBlocksInsert() {
	at := time.Date(2026, 3, 2, 8, 45, 0, 0, time.UTC)

	cfg := attendance.WindowConfig{
		Window:      attendance.Window{Start: "25:99", End: "09:00"},
		Departments: []string{"Engineering"},
	}
	s.dir.EXPECT().FindActive(gomock.Any(), "EMP001").Return(s.activeEmployee(), nil)
	s.settings.EXPECT().WindowConfig(gomock.Any()).Return(cfg, nil)

	_, err := s.service.Mark(markContext(at), attendance.MarkRequest{
		EmployeeID: "EMP001",
		Department: "Engineering",
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConfiguration))
}

func (s *ServiceSuite) TestMarkEmitsAuditEvent() {
	at := time.Date(2026, 3, 2, 8, 45, 0, 0, time.UTC)

	auditor := mocks.NewMockAuditPublisher(s.ctrl)
	service := attendance.NewService(s.store, s.settings, s.dir, time.UTC,
		attendance.WithLogger(slog.New(slog.DiscardHandler)),
		attendance.WithAuditPublisher(auditor),
	)

	s.dir.EXPECT().FindActive(gomock.Any(), "EMP001").Return(s.activeEmployee(), nil)
	s.settings.EXPECT().WindowConfig(gomock.Any()).Return(s.windowConfig(), nil)
	s.store.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
	auditor.EXPECT().Emit(gomock.Any(), gomock.Any()).Do(
		func(_ context.Context, event audit.Event) {
			s.Equal(audit.ActionAttendanceMarked, event.Action)
			s.Equal("EMP001", event.EmployeeID)
			s.Equal(string(attendance.StatusPresent), event.Status)
		})

	_, err := service.Mark(markContext(at), attendance.MarkRequest{
		EmployeeID: "EMP001",
		Department: "Engineering",
	})
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestForDayNotFound() {
	s.store.EXPECT().FindByEmployeeAndDay(gomock.Any(), "EMP001", gomock.Any()).
		Return(nil, sentinel.ErrNotFound)

	ctx := requestcontext.WithEmployeeID(context.Background(), "EMP001")
	_, err := s.service.ForDay(ctx, "EMP001", time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestForDayOtherEmployeeForbidden() {
	ctx := requestcontext.WithEmployeeID(context.Background(), "EMP002")
	_, err := s.service.ForDay(ctx, "EMP001", time.Now())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *ServiceSuite) TestForDayAdminReadsAnyone() {
	s.store.EXPECT().FindByEmployeeAndDay(gomock.Any(), "EMP001", gomock.Any()).
		Return(&attendance.Record{EmployeeID: "EMP001"}, nil)

	ctx := requestcontext.WithEmployeeID(context.Background(), "EMP099")
	ctx = requestcontext.WithRoles(ctx, []string{requestcontext.RoleAdmin})
	record, err := s.service.ForDay(ctx, "EMP001", time.Now())
	s.Require().NoError(err)
	s.Equal("EMP001", record.EmployeeID)
}

func (s *ServiceSuite) TestForRangeInvertedBounds() {
	ctx := requestcontext.WithEmployeeID(context.Background(), "EMP001")
	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	_, err := s.service.ForRange(ctx, "EMP001", from, to)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestForRangeSingleDay() {
	from := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	dayStart := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	s.store.EXPECT().ListByEmployeeAndRange(gomock.Any(), "EMP001", dayStart, dayStart).
		Return([]*attendance.Record{{EmployeeID: "EMP001"}}, nil)

	ctx := requestcontext.WithEmployeeID(context.Background(), "EMP001")
	records, err := s.service.ForRange(ctx, "EMP001", from, from)
	s.Require().NoError(err)
	s.Len(records, 1)
}

func (s *ServiceSuite) TestAllAdminSeesFullLedger() {
	s.store.EXPECT().ListAll(gomock.Any()).Return([]*attendance.Record{{}, {}}, nil)

	ctx := requestcontext.WithRoles(context.Background(), []string{requestcontext.RoleAdmin})
	records, err := s.service.All(ctx)
	s.Require().NoError(err)
	s.Len(records, 2)
}

func (s *ServiceSuite) TestAllNonAdminSeesOwnRecords() {
	s.store.EXPECT().ListByEmployee(gomock.Any(), "EMP001").
		Return([]*attendance.Record{{EmployeeID: "EMP001"}}, nil)

	ctx := requestcontext.WithEmployeeID(context.Background(), "EMP001")
	records, err := s.service.All(ctx)
	s.Require().NoError(err)
	s.Len(records, 1)
}

func (s *ServiceSuite) TestMarkStorageUnavailable() {
	at := time.Date(2026, 3, 2, 8, 45, 0, 0, time.UTC)

	s.dir.EXPECT().FindActive(gomock.Any(), "EMP001").Return(s.activeEmployee(), nil)
	s.settings.EXPECT().WindowConfig(gomock.Any()).Return(s.windowConfig(), nil)
	s.store.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("connection refused"))

	_, err := s.service.Mark(markContext(at), attendance.MarkRequest{
		EmployeeID: "EMP001",
		Department: "Engineering",
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
}
