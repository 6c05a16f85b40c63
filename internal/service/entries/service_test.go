package entries

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketqueue/queue-service/internal/domain"
	"github.com/rocketqueue/queue-service/internal/infra/events"
	"github.com/rocketqueue/queue-service/internal/infra/storage/audit"
	entrystore "github.com/rocketqueue/queue-service/internal/infra/storage/entry"
	linestore "github.com/rocketqueue/queue-service/internal/infra/storage/serviceline"
	"github.com/rocketqueue/queue-service/internal/integrations/shopservice"
	"github.com/rocketqueue/queue-service/internal/service/entries/models"
)

// --- Фейки ---

type fakeEntryRepo struct {
	byID    map[string]*domain.Entry
	byLine  []*domain.Entry
	updated *domain.Entry

	ratedID       string
	ratedValue    int
	ratedFeedback *string
}

func (f *fakeEntryRepo) GetByID(_ context.Context, id string) (*domain.Entry, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, entrystore.ErrEntryNotFound
	}
	return e, nil
}

func (f *fakeEntryRepo) GetByLineWithFilter(_ context.Context, _ domain.LineEntriesFilter) ([]*domain.Entry, error) {
	return f.byLine, nil
}

func (f *fakeEntryRepo) GetByCustomer(_ context.Context, customerID string, _ *domain.EntryStatus) ([]*domain.Entry, error) {
	var out []*domain.Entry
	for _, e := range f.byID {
		if e.CustomerID == customerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEntryRepo) UpdateTransition(_ context.Context, e *domain.Entry) error {
	if _, ok := f.byID[e.ID]; !ok {
		return entrystore.ErrEntryNotFound
	}
	f.updated = e
	return nil
}

func (f *fakeEntryRepo) SetRating(_ context.Context, id string, rating int, feedback *string) error {
	if _, ok := f.byID[id]; !ok {
		return entrystore.ErrEntryNotFound
	}
	f.ratedID = id
	f.ratedValue = rating
	f.ratedFeedback = feedback
	return nil
}

type fakeLineRepo struct {
	line *domain.ServiceLine
}

func (f *fakeLineRepo) GetByID(_ context.Context, id string) (*domain.ServiceLine, error) {
	if f.line == nil || f.line.ID != id {
		return nil, linestore.ErrLineNotFound
	}
	return f.line, nil
}

type fakeAuditRepo struct {
	actions []string
	records []*audit.Record
}

func (f *fakeAuditRepo) Log(_ context.Context, _, action, _ string) error {
	f.actions = append(f.actions, action)
	return nil
}

func (f *fakeAuditRepo) ListByEntry(_ context.Context, _ string) ([]*audit.Record, error) {
	return f.records, nil
}

type fakeShopClient struct {
	vendorID string
}

func (f *fakeShopClient) GetShop(_ context.Context, shopID string) (*shopservice.Shop, error) {
	return &shopservice.Shop{ID: shopID, VendorID: f.vendorID}, nil
}

type fakeEstimator struct {
	recordedCategory string
	recordedMinutes  int
	calls            int
}

func (f *fakeEstimator) RecordServiceDuration(_ context.Context, category string, minutes int) error {
	f.calls++
	f.recordedCategory = category
	f.recordedMinutes = minutes
	return nil
}

type fakePublisher struct {
	subjects []string
}

func (f *fakePublisher) Publish(subject string, _ events.EntryEvent) error {
	f.subjects = append(f.subjects, subject)
	return nil
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time { return p.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// --- Фикстура ---

var (
	testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	ownerID  = "user-1"
	vendorID = "vendor-1"
	otherID  = "user-2"
)

type fixture struct {
	svc       *Service
	entryRepo *fakeEntryRepo
	auditRepo *fakeAuditRepo
	estimator *fakeEstimator
	publisher *fakePublisher
}

func newFixture() *fixture {
	f := &fixture{
		entryRepo: &fakeEntryRepo{byID: map[string]*domain.Entry{}},
		auditRepo: &fakeAuditRepo{},
		estimator: &fakeEstimator{},
		publisher: &fakePublisher{},
	}
	f.svc = NewService(
		f.entryRepo,
		&fakeLineRepo{line: &domain.ServiceLine{ID: "line-1", ShopID: "shop-1", Category: "pickup", IsActive: true}},
		f.auditRepo,
		&fakeShopClient{vendorID: vendorID},
		f.estimator,
		f.publisher,
		nopLogger{},
	)
	f.svc.timeProvider = &fixedTimeProvider{now: testNow}
	return f
}

func (f *fixture) addEntry(id string, status domain.EntryStatus, joinedAt time.Time) *domain.Entry {
	e := &domain.Entry{
		ID:         id,
		LineID:     "line-1",
		CustomerID: ownerID,
		JoinedAt:   joinedAt,
		Status:     status,
	}
	f.entryRepo.byID[id] = e
	return e
}

// --- GetPosition ---

func TestGetPosition_FCFSOrder(t *testing.T) {
	f := newFixture()
	a := f.addEntry("a", domain.StatusWaiting, testNow.Add(-30*time.Minute))
	b := f.addEntry("b", domain.StatusWaiting, testNow.Add(-20*time.Minute))
	c := f.addEntry("c", domain.StatusWaiting, testNow.Add(-10*time.Minute))
	f.entryRepo.byLine = []*domain.Entry{a, b, c}

	resp, err := f.svc.GetPosition(context.Background(), "line-1", "b")
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Position)

	// Завершение впереди стоящей записи сразу продвигает очередь
	f.entryRepo.byLine = []*domain.Entry{b, c}
	resp, err = f.svc.GetPosition(context.Background(), "line-1", "b")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Position)
}

func TestGetPosition_EstimateIsNotRecomputed(t *testing.T) {
	f := newFixture()
	e := f.addEntry("a", domain.StatusWaiting, testNow)
	e.EstimatedMinutes = 45
	f.entryRepo.byLine = []*domain.Entry{e}

	resp, err := f.svc.GetPosition(context.Background(), "line-1", "a")
	require.NoError(t, err)
	assert.Equal(t, 45, resp.EstimatedMinutes)
}

func TestGetPosition_SlottedEntryHasNoPosition(t *testing.T) {
	f := newFixture()
	slot := testNow.Add(2 * time.Hour)
	e := f.addEntry("a", domain.StatusWaiting, testNow)
	e.BookedSlotStart = &slot

	resp, err := f.svc.GetPosition(context.Background(), "line-1", "a")
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Position)
	assert.Equal(t, 0, resp.EstimatedMinutes)
}

func TestGetPosition_TerminalOrForeignEntry(t *testing.T) {
	f := newFixture()
	f.addEntry("done", domain.StatusCompleted, testNow)
	f.addEntry("alien", domain.StatusWaiting, testNow).LineID = "line-2"

	_, err := f.svc.GetPosition(context.Background(), "line-1", "done")
	assert.ErrorIs(t, err, ErrEntryNotFound)

	_, err = f.svc.GetPosition(context.Background(), "line-1", "alien")
	assert.ErrorIs(t, err, ErrEntryNotFound)

	_, err = f.svc.GetPosition(context.Background(), "line-1", "missing")
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

// --- Leave ---

func TestLeave_CancelsActiveEntry(t *testing.T) {
	f := newFixture()
	f.addEntry("a", domain.StatusWaiting, testNow)

	resp, err := f.svc.Leave(context.Background(), "a", &models.LeaveEntryRequest{UserID: ownerID})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	require.NotNil(t, f.entryRepo.updated)
	assert.Equal(t, domain.StatusCancelled, f.entryRepo.updated.Status)
	assert.Equal(t, []string{audit.ActionCancelled}, f.auditRepo.actions)
	assert.Equal(t, []string{events.SubjectEntryCancelled}, f.publisher.subjects)
}

func TestLeave_IdempotentOnTerminal(t *testing.T) {
	f := newFixture()
	f.addEntry("a", domain.StatusCancelled, testNow)

	resp, err := f.svc.Leave(context.Background(), "a", &models.LeaveEntryRequest{UserID: ownerID})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	assert.Nil(t, f.entryRepo.updated)
	assert.Empty(t, f.auditRepo.actions)
}

func TestLeave_VendorMayCancel(t *testing.T) {
	f := newFixture()
	f.addEntry("a", domain.StatusWaiting, testNow)

	_, err := f.svc.Leave(context.Background(), "a", &models.LeaveEntryRequest{UserID: vendorID, Reason: "shop closing"})
	require.NoError(t, err)
}

func TestLeave_AccessDenied(t *testing.T) {
	f := newFixture()
	f.addEntry("a", domain.StatusWaiting, testNow)

	_, err := f.svc.Leave(context.Background(), "a", &models.LeaveEntryRequest{UserID: otherID})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Nil(t, f.entryRepo.updated)
}

// --- AdvanceStatus ---

func TestAdvanceStatus_SetsStartedAt(t *testing.T) {
	f := newFixture()
	f.addEntry("a", domain.StatusWaiting, testNow)

	resp, err := f.svc.AdvanceStatus(context.Background(), "a", &models.AdvanceStatusRequest{
		UserID: vendorID,
		Status: string(domain.StatusInProgress),
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusInProgress), resp.Status)
	require.NotNil(t, resp.StartedAt)
	assert.Equal(t, testNow, *resp.StartedAt)
	assert.Equal(t, []string{audit.ActionStatusChanged}, f.auditRepo.actions)
	assert.Equal(t, []string{events.SubjectEntryStatusChanged}, f.publisher.subjects)
}

func TestAdvanceStatus_CompletedFeedsEstimator(t *testing.T) {
	f := newFixture()
	e := f.addEntry("a", domain.StatusInProgress, testNow.Add(-time.Hour))
	startedAt := testNow.Add(-25 * time.Minute)
	e.StartedAt = &startedAt

	_, err := f.svc.AdvanceStatus(context.Background(), "a", &models.AdvanceStatusRequest{
		UserID: vendorID,
		Status: string(domain.StatusCompleted),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, f.estimator.calls)
	assert.Equal(t, "pickup", f.estimator.recordedCategory)
	assert.Equal(t, 25, f.estimator.recordedMinutes)
}

func TestAdvanceStatus_InvalidTransition(t *testing.T) {
	f := newFixture()
	f.addEntry("a", domain.StatusWaiting, testNow)

	_, err := f.svc.AdvanceStatus(context.Background(), "a", &models.AdvanceStatusRequest{
		UserID: vendorID,
		Status: string(domain.StatusCompleted),
	})
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Nil(t, f.entryRepo.updated)
}

func TestAdvanceStatus_InvalidStatus(t *testing.T) {
	f := newFixture()
	f.addEntry("a", domain.StatusWaiting, testNow)

	_, err := f.svc.AdvanceStatus(context.Background(), "a", &models.AdvanceStatusRequest{
		UserID: vendorID,
		Status: "paused",
	})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestAdvanceStatus_OnlyVendor(t *testing.T) {
	f := newFixture()
	f.addEntry("a", domain.StatusWaiting, testNow)

	_, err := f.svc.AdvanceStatus(context.Background(), "a", &models.AdvanceStatusRequest{
		UserID: ownerID,
		Status: string(domain.StatusInProgress),
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

// --- Rate ---

func TestRate_Success(t *testing.T) {
	f := newFixture()
	f.addEntry("a", domain.StatusCompleted, testNow)
	feedback := "Быстро и вежливо"

	err := f.svc.Rate(context.Background(), "a", &models.RateEntryRequest{
		UserID:   ownerID,
		Rating:   5,
		Feedback: &feedback,
	})
	require.NoError(t, err)

	assert.Equal(t, "a", f.entryRepo.ratedID)
	assert.Equal(t, 5, f.entryRepo.ratedValue)
	require.NotNil(t, f.entryRepo.ratedFeedback)
	assert.Equal(t, feedback, *f.entryRepo.ratedFeedback)
	assert.Equal(t, []string{audit.ActionRated}, f.auditRepo.actions)
}

func TestRate_Validation(t *testing.T) {
	f := newFixture()
	f.addEntry("a", domain.StatusCompleted, testNow)

	err := f.svc.Rate(context.Background(), "a", &models.RateEntryRequest{UserID: ownerID, Rating: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = f.svc.Rate(context.Background(), "a", &models.RateEntryRequest{UserID: ownerID, Rating: 6})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRate_OnlyOwner(t *testing.T) {
	f := newFixture()
	f.addEntry("a", domain.StatusCompleted, testNow)

	// Даже вендор не может оценить чужое обслуживание
	err := f.svc.Rate(context.Background(), "a", &models.RateEntryRequest{UserID: vendorID, Rating: 5})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestRate_OnlyCompleted(t *testing.T) {
	f := newFixture()
	f.addEntry("a", domain.StatusCancelled, testNow)

	err := f.svc.Rate(context.Background(), "a", &models.RateEntryRequest{UserID: ownerID, Rating: 4})
	assert.ErrorIs(t, err, ErrCannotRate)
}
