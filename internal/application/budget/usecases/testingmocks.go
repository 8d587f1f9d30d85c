package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"zavod/internal/domain/budget"
	"zavod/internal/shared/logger"
)

type mockBudgetRepository struct {
	mock.Mock
}

func (m *mockBudgetRepository) Create(ctx context.Context, b *budget.Budget) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *mockBudgetRepository) GetByID(ctx context.Context, id uint) (*budget.Budget, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*budget.Budget), args.Error(1)
}

func (m *mockBudgetRepository) GetActiveByProjectID(ctx context.Context, projectID uint) (*budget.Budget, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*budget.Budget), args.Error(1)
}

type mockUsageRecordRepository struct {
	mock.Mock
}

func (m *mockUsageRecordRepository) Append(ctx context.Context, record *budget.UsageRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockUsageRecordRepository) SumWindow(ctx context.Context, projectID uint, from, to time.Time) (budget.UsageTotals, error) {
	args := m.Called(ctx, projectID, from, to)
	return args.Get(0).(budget.UsageTotals), args.Error(1)
}

// capturedAlert is one Notify call seen by captureSink.
type capturedAlert struct {
	ProjectID uint
	AlertType string
	Severity  string
	Message   string
	Metadata  map[string]interface{}
}

// captureSink records alerts instead of delivering them.
type captureSink struct {
	mu     sync.Mutex
	alerts []capturedAlert
}

func (s *captureSink) Notify(_ context.Context, projectID uint, alertType, severity, message string, metadata map[string]interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, capturedAlert{
		ProjectID: projectID,
		AlertType: alertType,
		Severity:  severity,
		Message:   message,
		Metadata:  metadata,
	})
}

func (s *captureSink) all() []capturedAlert {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]capturedAlert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

// stubTx runs the function directly without a real transaction.
type stubTx struct{}

func (stubTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// nopLogger is a no-op logger for testing.
type nopLogger struct{}

func newNopLogger() logger.Interface { return &nopLogger{} }

func (l *nopLogger) Debug(msg string, args ...any)                   {}
func (l *nopLogger) Info(msg string, args ...any)                    {}
func (l *nopLogger) Warn(msg string, args ...any)                    {}
func (l *nopLogger) Error(msg string, args ...any)                   {}
func (l *nopLogger) With(args ...any) logger.Interface               { return l }
func (l *nopLogger) Named(name string) logger.Interface              { return l }
func (l *nopLogger) Debugw(msg string, keysAndValues ...interface{}) {}
func (l *nopLogger) Infow(msg string, keysAndValues ...interface{})  {}
func (l *nopLogger) Warnw(msg string, keysAndValues ...interface{})  {}
func (l *nopLogger) Errorw(msg string, keysAndValues ...interface{}) {}
