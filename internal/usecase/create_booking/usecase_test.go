package create_booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/booking"
	scheduleRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

// memoryStore вставка-если-нет под мьютексом, как ON CONFLICT DO NOTHING
type memoryStore struct {
	mu       sync.Mutex
	bookings map[string]*domain.Booking
	err      error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{bookings: make(map[string]*domain.Booking)}
}

func (s *memoryStore) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[b.ID]; ok {
		return nil, bookingRepo.ErrSlotTaken
	}
	cp := *b
	cp.CreatedAt = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	cp.UpdatedAt = cp.CreatedAt
	s.bookings[b.ID] = &cp
	return &cp, nil
}

type fakeSchedules map[string]*domain.ScheduleTemplate

func (f fakeSchedules) GetByProviderID(_ context.Context, providerID string) (*domain.ScheduleTemplate, error) {
	tpl, ok := f[providerID]
	if !ok {
		return nil, scheduleRepo.ErrScheduleNotFound
	}
	return tpl, nil
}

type fakeCatalog map[string]*domain.Service

func (f fakeCatalog) ResolveServices(_ context.Context, providerID string, ids []string) ([]*domain.Service, []string, error) {
	var found []*domain.Service
	var missing []string
	for _, id := range ids {
		if s, ok := f[id]; ok && s.ProviderID == providerID {
			found = append(found, s)
		} else {
			missing = append(missing, id)
		}
	}
	return found, missing, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.BookingEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e domain.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

type countingMetrics struct {
	mu      sync.Mutex
	results map[string]int
}

func (m *countingMetrics) ObserveReservation(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.results == nil {
		m.results = make(map[string]int)
	}
	m.results[result]++
}

var (
	monday = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	friday = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
)

func barberTemplate() *domain.ScheduleTemplate {
	tpl := &domain.ScheduleTemplate{ProviderID: "barberA", SlotDurationMinutes: 60}
	tpl.Days[domain.Monday] = domain.DaySchedule{Enabled: true, StartTime: "09:00", EndTime: "12:00"}
	return tpl
}

type fixture struct {
	uc        *UseCase
	store     *memoryStore
	publisher *recordingPublisher
	metrics   *countingMetrics
}

func newFixture(now time.Time) *fixture {
	f := &fixture{
		store:     newMemoryStore(),
		publisher: &recordingPublisher{},
		metrics:   &countingMetrics{},
	}
	catalog := fakeCatalog{
		"cut":   {ID: "cut", ProviderID: "barberA", Name: "Haircut", DurationMinutes: 30, Price: 25},
		"beard": {ID: "beard", ProviderID: "barberA", Name: "Beard trim", DurationMinutes: 15, Price: 10},
		"shave": {ID: "shave", ProviderID: "barberB", Name: "Shave", DurationMinutes: 20, Price: 15},
	}
	f.uc = NewUseCase(f.store, fakeSchedules{"barberA": barberTemplate()}, catalog, f.publisher, f.metrics, logger.NewNop()).
		WithTimeProvider(fixedTime{now: now})
	return f
}

func validRequest(clientID string) *Request {
	return &Request{
		ProviderID: "barberA",
		ClientID:   clientID,
		ClientName: "Ivan",
		Date:       monday,
		Time:       "10:00",
		ServiceIDs: []string{"cut", "beard"},
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(friday)

	resp, err := f.uc.Execute(context.Background(), validRequest("client1"))
	require.NoError(t, err)

	assert.Equal(t, "barberA_2024-03-04_1000", resp.ID)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, types.TimeString("10:00"), resp.Time)
	assert.Equal(t, 45, resp.TotalDurationMinutes)
	assert.Equal(t, 35.0, resp.TotalPrice)
	require.Len(t, resp.Services, 2)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, domain.EventBookingCreated, f.publisher.events[0].Type)
	assert.Equal(t, resp.ID, f.publisher.events[0].BookingID)
	assert.Equal(t, 1, f.metrics.results[reservationCreated])
}

func TestExecute_SecondClientGetsSlotTaken(t *testing.T) {
	f := newFixture(friday)

	_, err := f.uc.Execute(context.Background(), validRequest("client1"))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), validRequest("client2"))
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Equal(t, "client1", f.store.bookings["barberA_2024-03-04_1000"].ClientID)
	assert.Equal(t, 1, f.metrics.results[reservationSlotTaken])
}

func TestExecute_ConcurrentReservationsExactlyOneWins(t *testing.T) {
	f := newFixture(friday)

	const clients = 32
	var (
		wg      sync.WaitGroup
		start   = make(chan struct{})
		winners int32
		losers  int32
	)

	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			req := validRequest(fmt.Sprintf("client%d", i))
			_, err := f.uc.Execute(context.Background(), req)
			switch {
			case err == nil:
				atomic.AddInt32(&winners, 1)
			case errors.Is(err, ErrSlotTaken):
				atomic.AddInt32(&losers, 1)
			}
		}(i)
	}
	close(start)
	wg.Wait()

	assert.EqualValues(t, 1, winners)
	assert.EqualValues(t, clients-1, losers)
	assert.Len(t, f.store.bookings, 1)
	assert.Len(t, f.publisher.events, 1)
}

func TestExecute_AnonymousClientName(t *testing.T) {
	f := newFixture(friday)
	req := validRequest("client1")
	req.ClientName = "   "

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.AnonymousClientName, resp.ClientName)
}

func TestExecute_PublishFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture(friday)
	f.publisher.err = errors.New("broker down")

	_, err := f.uc.Execute(context.Background(), validRequest("client1"))
	require.NoError(t, err)
	assert.Len(t, f.store.bookings, 1)
}

func TestExecute_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		now     time.Time
		mutate  func(r *Request)
		wantErr error
	}{
		{name: "no services", now: friday, mutate: func(r *Request) { r.ServiceIDs = nil }, wantErr: ErrInvalidInput},
		{name: "blank service id", now: friday, mutate: func(r *Request) { r.ServiceIDs = []string{" "} }, wantErr: ErrInvalidInput},
		{name: "malformed time", now: friday, mutate: func(r *Request) { r.Time = "10-00" }, wantErr: ErrInvalidInput},
		{name: "missing client", now: friday, mutate: func(r *Request) { r.ClientID = "" }, wantErr: ErrInvalidInput},
		{name: "no schedule", now: friday, mutate: func(r *Request) { r.ProviderID = "barberZ" }, wantErr: ErrScheduleNotPublished},
		{name: "date in past", now: friday, mutate: func(r *Request) { r.Date = monday.AddDate(0, 0, -7) }, wantErr: ErrInvalidDate},
		{name: "beyond horizon", now: friday, mutate: func(r *Request) { r.Date = monday.AddDate(0, 0, 35) }, wantErr: ErrDateTooFarInFuture},
		{name: "day off", now: friday, mutate: func(r *Request) { r.Date = monday.AddDate(0, 0, 1) }, wantErr: ErrProviderClosed},
		{name: "off grid", now: friday, mutate: func(r *Request) { r.Time = "10:15" }, wantErr: ErrInvalidTimeSlot},
		{name: "after window", now: friday, mutate: func(r *Request) { r.Time = "12:00" }, wantErr: ErrInvalidTimeSlot},
		{
			name:    "inside lead time",
			now:     time.Date(2024, 3, 4, 9, 40, 0, 0, time.UTC),
			mutate:  func(r *Request) {},
			wantErr: ErrInvalidTimeSlot,
		},
		{name: "foreign service", now: friday, mutate: func(r *Request) { r.ServiceIDs = []string{"cut", "shave"} }, wantErr: ErrServiceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.now)
			req := validRequest("client1")
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.store.bookings)
			assert.Empty(t, f.publisher.events)
			assert.Equal(t, 1, f.metrics.results[reservationRejected])
		})
	}
}

func TestExecute_LeadTimeBoundary(t *testing.T) {
	// 09:29 + 30 = 09:59 < 10:00
	f := newFixture(time.Date(2024, 3, 4, 9, 29, 0, 0, time.UTC))
	_, err := f.uc.Execute(context.Background(), validRequest("client1"))
	require.NoError(t, err)

	// 09:30 + 30 = 10:00, слот должен быть строго позже
	f = newFixture(time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC))
	_, err = f.uc.Execute(context.Background(), validRequest("client1"))
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestExecute_StoreFailure(t *testing.T) {
	f := newFixture(friday)
	f.store.err = errors.New("connection reset")

	_, err := f.uc.Execute(context.Background(), validRequest("client1"))
	assert.ErrorIs(t, err, ErrInternal)
	assert.NotErrorIs(t, err, ErrSlotTaken)
	assert.Equal(t, 1, f.metrics.results[reservationError])
}
