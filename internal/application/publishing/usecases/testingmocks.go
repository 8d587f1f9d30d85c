package usecases

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"zavod/internal/domain/budget"
	"zavod/internal/domain/content"
	"zavod/internal/domain/integration"
	"zavod/internal/domain/project"
	"zavod/internal/domain/publication"
	vo "zavod/internal/domain/publication/value_objects"
	"zavod/internal/infrastructure/dispatch"
	"zavod/internal/infrastructure/platform"
	"zavod/internal/shared/logger"
)

type mockPublicationRepository struct {
	mock.Mock
}

func (m *mockPublicationRepository) Create(ctx context.Context, pub *publication.Publication) error {
	args := m.Called(ctx, pub)
	return args.Error(0)
}

func (m *mockPublicationRepository) GetByID(ctx context.Context, id uint) (*publication.Publication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*publication.Publication), args.Error(1)
}

func (m *mockPublicationRepository) GetByIdempotencyKey(ctx context.Context, projectID uint, key string) (*publication.Publication, error) {
	args := m.Called(ctx, projectID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*publication.Publication), args.Error(1)
}

func (m *mockPublicationRepository) Update(ctx context.Context, pub *publication.Publication) error {
	args := m.Called(ctx, pub)
	return args.Error(0)
}

func (m *mockPublicationRepository) ListDueScheduled(ctx context.Context, before time.Time, limit int) ([]*publication.Publication, error) {
	args := m.Called(ctx, before, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*publication.Publication), args.Error(1)
}

func (m *mockPublicationRepository) ClaimForPublishing(ctx context.Context, id uint) (*publication.Publication, bool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*publication.Publication), args.Bool(1), args.Error(2)
}

type mockContentReader struct {
	mock.Mock
}

func (m *mockContentReader) Get(ctx context.Context, projectID, contentItemID uint) (*content.ContentItem, error) {
	args := m.Called(ctx, projectID, contentItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.ContentItem), args.Error(1)
}

type mockQCResultSource struct {
	mock.Mock
}

func (m *mockQCResultSource) LatestResult(ctx context.Context, projectID, contentItemID uint) (*content.QCReport, error) {
	args := m.Called(ctx, projectID, contentItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*content.QCReport), args.Error(1)
}

type mockBudgetGate struct {
	mock.Mock
}

func (m *mockBudgetGate) EnsureAdmission(ctx context.Context, projectID uint, publicationsUsed int64, at time.Time) error {
	args := m.Called(ctx, projectID, publicationsUsed, at)
	return args.Error(0)
}

type mockUsageRecorder struct {
	mock.Mock
}

func (m *mockUsageRecorder) RecordConfirmed(ctx context.Context, projectID uint, publicationsUsed int64, at time.Time) error {
	args := m.Called(ctx, projectID, publicationsUsed, at)
	return args.Error(0)
}

// memoryLedger is an append-only in-memory usage ledger with real window
// summation, for tests that exercise the budget chain end to end.
type memoryLedger struct {
	mu      sync.Mutex
	records []*budget.UsageRecord
}

func (l *memoryLedger) Append(_ context.Context, record *budget.UsageRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, record)
	return nil
}

func (l *memoryLedger) SumWindow(_ context.Context, projectID uint, from, to time.Time) (budget.UsageTotals, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var totals budget.UsageTotals
	for _, r := range l.records {
		if r.ProjectID() != projectID || r.UsageDate().Before(from) || r.UsageDate().After(to) {
			continue
		}
		totals = totals.Add(r.TokenUsed(), r.VideoSecondsUsed(), r.PublicationsUsed())
	}
	return totals, nil
}

func (l *memoryLedger) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// singleBudgetRepo serves one fixed budget for every project lookup.
type singleBudgetRepo struct {
	b *budget.Budget
}

func (r *singleBudgetRepo) Create(context.Context, *budget.Budget) error { return nil }

func (r *singleBudgetRepo) GetByID(context.Context, uint) (*budget.Budget, error) {
	return r.b, nil
}

func (r *singleBudgetRepo) GetActiveByProjectID(context.Context, uint) (*budget.Budget, error) {
	return r.b, nil
}

type mockCredentialSource struct {
	mock.Mock
}

func (m *mockCredentialSource) Credential(ctx context.Context, projectID uint, provider string) (string, error) {
	args := m.Called(ctx, projectID, provider)
	return args.String(0), args.Error(1)
}

type mockProjectRepository struct {
	mock.Mock
}

func (m *mockProjectRepository) Create(ctx context.Context, p *project.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProjectRepository) GetByID(ctx context.Context, id uint) (*project.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Project), args.Error(1)
}

func (m *mockProjectRepository) ListActiveIDs(ctx context.Context) ([]uint, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint), args.Error(1)
}

type mockTokenRepository struct {
	mock.Mock
}

func (m *mockTokenRepository) Upsert(ctx context.Context, token *integration.IntegrationToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockTokenRepository) FindByProjectAndProvider(ctx context.Context, projectID uint, provider string) (*integration.IntegrationToken, error) {
	args := m.Called(ctx, projectID, provider)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.IntegrationToken), args.Error(1)
}

// stubCipher reverses its marker prefix instead of real encryption.
type stubCipher struct {
	decryptErr error
}

func (c *stubCipher) Encrypt(plaintext string) (string, error) {
	return "enc:" + plaintext, nil
}

func (c *stubCipher) Decrypt(ciphertext string) (string, error) {
	if c.decryptErr != nil {
		return "", c.decryptErr
	}
	return strings.TrimPrefix(ciphertext, "enc:"), nil
}

// stubAdapter is a registry entry with a canned outcome and a call counter.
type stubAdapter struct {
	mu       sync.Mutex
	platform vo.Platform
	ref      *platform.PostRef
	err      error
	requests []platform.Request
}

func (a *stubAdapter) Platform() vo.Platform {
	return a.platform
}

func (a *stubAdapter) Publish(_ context.Context, req platform.Request) (*platform.PostRef, error) {
	a.mu.Lock()
	a.requests = append(a.requests, req)
	a.mu.Unlock()
	if a.err != nil {
		return nil, a.err
	}
	return a.ref, nil
}

func (a *stubAdapter) calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.requests)
}

// failingDispatcher rejects every enqueue.
type failingDispatcher struct {
	err error
}

func (d *failingDispatcher) Enqueue(context.Context, dispatch.Job) (string, error) {
	return "", d.err
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
