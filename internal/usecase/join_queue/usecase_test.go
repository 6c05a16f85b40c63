package join_queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketqueue/queue-service/internal/domain"
	"github.com/rocketqueue/queue-service/internal/infra/events"
	"github.com/rocketqueue/queue-service/internal/integrations/shopservice"
	"github.com/rocketqueue/queue-service/pkg/types"
)

// --- Фейки ---

type fakeEntryRepo struct {
	slotEntries []*domain.Entry
	waiting     int
	hasActive   bool

	created *domain.Entry

	createErr      error
	countErr       error
	hasActiveErr   error
	slotEntriesErr error
}

func (f *fakeEntryRepo) Create(_ context.Context, e *domain.Entry) (*domain.Entry, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	e.CreatedAt = time.Date(2025, 6, 10, 12, 0, 1, 0, time.UTC)
	e.UpdatedAt = e.CreatedAt
	f.created = e
	return e, nil
}

func (f *fakeEntryRepo) GetByLineWithFilter(_ context.Context, _ domain.LineEntriesFilter) ([]*domain.Entry, error) {
	if f.slotEntriesErr != nil {
		return nil, f.slotEntriesErr
	}
	return f.slotEntries, nil
}

func (f *fakeEntryRepo) CountWaiting(_ context.Context, _ string) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.waiting, nil
}

func (f *fakeEntryRepo) HasActiveEntry(_ context.Context, _, _ string) (bool, error) {
	if f.hasActiveErr != nil {
		return false, f.hasActiveErr
	}
	return f.hasActive, nil
}

type fakeLineRepo struct {
	line *domain.ServiceLine
	err  error
}

func (f *fakeLineRepo) GetByID(_ context.Context, _ string) (*domain.ServiceLine, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.line, nil
}

type fakeShopClient struct {
	shop *shopservice.Shop
	err  error
}

func (f *fakeShopClient) GetShop(_ context.Context, _ string) (*shopservice.Shop, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.shop, nil
}

type fakeEstimator struct {
	estimate int
	err      error
	calls    int
}

func (f *fakeEstimator) Estimate(_ context.Context, _ int, _ string) (int, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.estimate, nil
}

type fakeAuditLog struct {
	actions []string
}

func (f *fakeAuditLog) Log(_ context.Context, _, action, _ string) error {
	f.actions = append(f.actions, action)
	return nil
}

type fakePublisher struct {
	subjects []string
}

func (f *fakePublisher) Publish(subject string, _ events.EntryEvent) error {
	f.subjects = append(f.subjects, subject)
	return nil
}

type fakeTxManager struct{}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time { return p.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// --- Хелперы ---

var testNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func fcfsLine() *domain.ServiceLine {
	return &domain.ServiceLine{
		ID:       "line-1",
		ShopID:   "shop-1",
		Name:     "Выдача заказов",
		Category: "pickup",
		IsActive: true,
	}
}

func slottedLine() *domain.ServiceLine {
	return &domain.ServiceLine{
		ID:       "line-2",
		ShopID:   "shop-1",
		Name:     "Консультация",
		Category: "consulting",
		IsActive: true,
		SlotConfig: &domain.SlotConfig{
			IsEnabled:          true,
			DurationMinutes:    30,
			MaxCapacityPerSlot: 2,
		},
		Schedule: &domain.Schedule{
			StartTime: types.TimeString("09:00"),
			EndTime:   types.TimeString("17:00"),
		},
	}
}

type fixture struct {
	uc        *UseCase
	entryRepo *fakeEntryRepo
	lineRepo  *fakeLineRepo
	estimator *fakeEstimator
	auditLog  *fakeAuditLog
	publisher *fakePublisher
}

func newFixture(line *domain.ServiceLine) *fixture {
	f := &fixture{
		entryRepo: &fakeEntryRepo{},
		lineRepo:  &fakeLineRepo{line: line},
		estimator: &fakeEstimator{estimate: 45},
		auditLog:  &fakeAuditLog{},
		publisher: &fakePublisher{},
	}
	f.uc = NewUseCase(
		f.entryRepo,
		f.lineRepo,
		&fakeShopClient{},
		f.estimator,
		f.auditLog,
		f.publisher,
		&fakeTxManager{},
		nopLogger{},
	)
	f.uc.timeProvider = &fixedTimeProvider{now: testNow}
	return f
}

func slotAt(hour, minute int) *time.Time {
	t := time.Date(2025, 6, 10, hour, minute, 0, 0, time.UTC)
	return &t
}

// --- FCFS ---

func TestExecute_FCFS_Success(t *testing.T) {
	f := newFixture(fcfsLine())
	f.entryRepo.waiting = 2

	resp, err := f.uc.Execute(context.Background(), &Request{
		UserID:       "user-1",
		LineID:       "line-1",
		CustomerName: "Иван Петров",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Position)
	assert.Equal(t, 45, resp.EstimatedMinutes)
	assert.Equal(t, string(domain.StatusWaiting), resp.Status)
	assert.Nil(t, resp.BookedSlotStart)
	assert.Equal(t, testNow, resp.JoinedAt)
	assert.NotEmpty(t, resp.ID)

	// Аудит и событие после коммита
	assert.Equal(t, []string{"CREATED"}, f.auditLog.actions)
	assert.Equal(t, []string{events.SubjectEntryCreated}, f.publisher.subjects)
}

func TestExecute_FCFS_EstimatorFailureFallsBackToFixedRate(t *testing.T) {
	f := newFixture(fcfsLine())
	f.entryRepo.waiting = 3
	f.estimator.err = errors.New("redis down")

	resp, err := f.uc.Execute(context.Background(), &Request{
		UserID:       "user-1",
		LineID:       "line-1",
		CustomerName: "Иван Петров",
	})
	require.NoError(t, err)

	assert.Equal(t, 4*domain.DefaultPerPersonMinutes, resp.EstimatedMinutes)
	assert.Equal(t, 4, resp.Position)
}

func TestExecute_FCFS_SlotStartNotAllowed(t *testing.T) {
	f := newFixture(fcfsLine())

	_, err := f.uc.Execute(context.Background(), &Request{
		UserID:       "user-1",
		LineID:       "line-1",
		CustomerName: "Иван Петров",
		SlotStart:    slotAt(14, 0),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, f.entryRepo.created)
}

// --- Slotted ---

func TestExecute_Slotted_Success(t *testing.T) {
	f := newFixture(slottedLine())
	f.entryRepo.slotEntries = []*domain.Entry{
		{Status: domain.StatusWaiting, BookedSlotStart: slotAt(14, 0)},
	}

	resp, err := f.uc.Execute(context.Background(), &Request{
		UserID:       "user-1",
		LineID:       "line-2",
		CustomerName: "Иван Петров",
		SlotStart:    slotAt(14, 0),
	})
	require.NoError(t, err)

	require.NotNil(t, resp.BookedSlotStart)
	assert.Equal(t, *slotAt(14, 0), *resp.BookedSlotStart)
	assert.Equal(t, 0, resp.EstimatedMinutes)
	assert.Equal(t, 0, resp.Position)
	assert.Equal(t, 0, f.estimator.calls)
}

func TestExecute_Slotted_FullSlot(t *testing.T) {
	f := newFixture(slottedLine())
	f.entryRepo.slotEntries = []*domain.Entry{
		{Status: domain.StatusWaiting, BookedSlotStart: slotAt(14, 0)},
		{Status: domain.StatusInProgress, BookedSlotStart: slotAt(14, 0)},
	}

	_, err := f.uc.Execute(context.Background(), &Request{
		UserID:       "user-1",
		LineID:       "line-2",
		CustomerName: "Иван Петров",
		SlotStart:    slotAt(14, 0),
	})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_Slotted_CancelledEntryFreesCapacity(t *testing.T) {
	f := newFixture(slottedLine())

	// Слот был заполнен (вместимость 2), но одна запись отменена —
	// новая запись занимает освободившееся место
	f.entryRepo.slotEntries = []*domain.Entry{
		{Status: domain.StatusWaiting, BookedSlotStart: slotAt(14, 0)},
		{Status: domain.StatusCancelled, BookedSlotStart: slotAt(14, 0)},
	}

	resp, err := f.uc.Execute(context.Background(), &Request{
		UserID:       "user-1",
		LineID:       "line-2",
		CustomerName: "Иван Петров",
		SlotStart:    slotAt(14, 0),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.BookedSlotStart)
	require.NotNil(t, f.entryRepo.created)
}

func TestExecute_Slotted_EntriesOnOtherSlotsDoNotCount(t *testing.T) {
	f := newFixture(slottedLine())
	f.entryRepo.slotEntries = []*domain.Entry{
		{Status: domain.StatusWaiting, BookedSlotStart: slotAt(13, 30)},
		{Status: domain.StatusWaiting, BookedSlotStart: slotAt(14, 30)},
	}

	resp, err := f.uc.Execute(context.Background(), &Request{
		UserID:       "user-1",
		LineID:       "line-2",
		CustomerName: "Иван Петров",
		SlotStart:    slotAt(14, 0),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.BookedSlotStart)
}

func TestExecute_Slotted_PastSlot(t *testing.T) {
	f := newFixture(slottedLine())

	_, err := f.uc.Execute(context.Background(), &Request{
		UserID:       "user-1",
		LineID:       "line-2",
		CustomerName: "Иван Петров",
		SlotStart:    slotAt(10, 0),
	})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_Slotted_MisalignedSlot(t *testing.T) {
	f := newFixture(slottedLine())

	// 14:15 не лежит на сетке 09:00 + k*30
	_, err := f.uc.Execute(context.Background(), &Request{
		UserID:       "user-1",
		LineID:       "line-2",
		CustomerName: "Иван Петров",
		SlotStart:    slotAt(14, 15),
	})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_Slotted_SlotStartRequired(t *testing.T) {
	f := newFixture(slottedLine())

	_, err := f.uc.Execute(context.Background(), &Request{
		UserID:       "user-1",
		LineID:       "line-2",
		CustomerName: "Иван Петров",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// --- Общие проверки ---

func TestExecute_LineInactive(t *testing.T) {
	line := fcfsLine()
	line.IsActive = false
	f := newFixture(line)

	_, err := f.uc.Execute(context.Background(), &Request{
		UserID:       "user-1",
		LineID:       "line-1",
		CustomerName: "Иван Петров",
	})
	assert.ErrorIs(t, err, ErrLineInactive)
}

func TestExecute_AlreadyInQueue(t *testing.T) {
	f := newFixture(fcfsLine())
	f.entryRepo.hasActive = true

	_, err := f.uc.Execute(context.Background(), &Request{
		UserID:       "user-1",
		LineID:       "line-1",
		CustomerName: "Иван Петров",
	})
	assert.ErrorIs(t, err, ErrAlreadyInQueue)
	assert.Nil(t, f.entryRepo.created)
}

func TestExecute_ValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		req  *Request
	}{
		{"empty user", &Request{LineID: "line-1", CustomerName: "Иван"}},
		{"empty line", &Request{UserID: "user-1", CustomerName: "Иван"}},
		{"empty name", &Request{UserID: "user-1", LineID: "line-1", CustomerName: "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(fcfsLine())
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
