package chats

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	chatRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/chat"
	userRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/user"
	"github.com/m04kA/SMC-BarberBooking/internal/service/chats/models"
	"github.com/m04kA/SMC-BarberBooking/pkg/logger"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

// memoryRepo хранилище чатов в памяти
type memoryRepo struct {
	mu       sync.Mutex
	chats    map[string]*domain.Chat
	messages []*domain.Message
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{chats: make(map[string]*domain.Chat)}
}

func (r *memoryRepo) Ensure(_ context.Context, chat *domain.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.chats[chat.ID]; !ok {
		cp := *chat
		r.chats[chat.ID] = &cp
	}
	return nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*domain.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.chats[id]
	if !ok {
		return nil, chatRepo.ErrChatNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memoryRepo) ListByParticipant(_ context.Context, userID string) ([]*domain.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Chat, 0)
	for _, c := range r.chats {
		if !c.HasParticipant(userID) {
			continue
		}
		cp := *c
		for _, m := range r.messages {
			if m.ChatID == c.ID && m.ReceiverID == userID && !m.IsRead {
				cp.UnreadCount++
			}
		}
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastMessage == nil || out[j].LastMessage == nil {
			return out[j].LastMessage == nil && out[i].LastMessage != nil
		}
		return out[i].LastMessage.SentAt.After(out[j].LastMessage.SentAt)
	})
	return out, nil
}

func (r *memoryRepo) InsertMessage(_ context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *msg
	r.messages = append(r.messages, &cp)
	return nil
}

func (r *memoryRepo) UpdateLastMessage(_ context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.chats[msg.ChatID]
	if !ok {
		return chatRepo.ErrChatNotFound
	}
	c.LastMessage = &domain.LastMessage{Text: msg.Text, SenderID: msg.SenderID, SentAt: msg.SentAt}
	return nil
}

func (r *memoryRepo) ListMessages(_ context.Context, chatID string) ([]*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Message, 0)
	for _, m := range r.messages {
		if m.ChatID == chatID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SentAt.Before(out[j].SentAt) })
	return out, nil
}

func (r *memoryRepo) MarkRead(_ context.Context, chatID, receiverID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var updated int64
	for _, m := range r.messages {
		if m.ChatID == chatID && m.ReceiverID == receiverID && !m.IsRead {
			m.IsRead = true
			updated++
		}
	}
	return updated, nil
}

type fakeUserRepo struct{}

func (fakeUserRepo) GetByID(_ context.Context, id string) (*domain.UserProfile, error) {
	switch id {
	case "barberA", "barberB":
		return &domain.UserProfile{ID: id, Name: "Barber " + id[len(id)-1:], Role: domain.RoleBarber}, nil
	case "clientX", "clientY":
		return &domain.UserProfile{ID: id, Name: "Client " + id[len(id)-1:], Role: domain.RoleClient}, nil
	}
	return nil, userRepo.ErrUserNotFound
}

type inlineTx struct{ calls int }

func (tx *inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.calls++
	return fn(ctx)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.ChatEvent
}

func (p *recordingPublisher) PublishChat(_ context.Context, e domain.ChatEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

type channelSubscriber struct {
	ch chan domain.ChatEvent
}

func (s *channelSubscriber) SubscribeChat(_ context.Context, _ string) (<-chan domain.ChatEvent, error) {
	return s.ch, nil
}

// sequenceIDs выдаёт m1, m2, ...
func sequenceIDs() IDGenerator {
	n := 0
	return func() string {
		n++
		return "m" + strconv.Itoa(n)
	}
}

var noon = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	svc  *Service
	repo *memoryRepo
	tx   *inlineTx
	pub  *recordingPublisher
	sub  *channelSubscriber
}

func newTestEnv() *testEnv {
	env := &testEnv{
		repo: newMemoryRepo(),
		tx:   &inlineTx{},
		pub:  &recordingPublisher{},
		sub:  &channelSubscriber{ch: make(chan domain.ChatEvent, 1)},
	}
	env.svc = NewService(env.repo, fakeUserRepo{}, env.tx, env.pub, env.sub, logger.NewNop()).
		WithTimeProvider(fixedTime{now: noon})
	env.svc.newID = sequenceIDs()
	return env
}

func (env *testEnv) openChat(t *testing.T, userID, participantID string) *models.ChatResponse {
	t.Helper()
	chat, err := env.svc.OpenChat(context.Background(), &models.OpenChatRequest{UserID: userID, ParticipantID: participantID})
	require.NoError(t, err)
	return chat
}

func TestService_OpenChat(t *testing.T) {
	env := newTestEnv()

	chat := env.openChat(t, "clientX", "barberA")
	assert.Equal(t, domain.ChatID("clientX", "barberA"), chat.ID)
	assert.Equal(t, "barberA", chat.Participant.ID)
	assert.Equal(t, "barber", chat.Participant.Role)
	assert.Nil(t, chat.LastMessage)

	// мастер открывает тот же чат со своей стороны
	again := env.openChat(t, "barberA", "clientX")
	assert.Equal(t, chat.ID, again.ID)
	assert.Equal(t, "clientX", again.Participant.ID)
	assert.Len(t, env.repo.chats, 1)
	assert.Equal(t, 2, env.tx.calls)
}

func TestService_OpenChat_Rejections(t *testing.T) {
	tests := []struct {
		name          string
		userID        string
		participantID string
		wantErr       error
	}{
		{name: "no participant", userID: "clientX", participantID: "", wantErr: ErrInvalidInput},
		{name: "self", userID: "clientX", participantID: "clientX", wantErr: ErrInvalidInput},
		{name: "two clients", userID: "clientX", participantID: "clientY", wantErr: ErrInvalidInput},
		{name: "two barbers", userID: "barberA", participantID: "barberB", wantErr: ErrInvalidInput},
		{name: "unknown participant", userID: "clientX", participantID: "ghost", wantErr: ErrParticipantNotFound},
		{name: "no own profile", userID: "ghost", participantID: "barberA", wantErr: ErrProfileRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			_, err := env.svc.OpenChat(context.Background(), &models.OpenChatRequest{UserID: tt.userID, ParticipantID: tt.participantID})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, env.repo.chats)
		})
	}
}

func TestService_SendMessage(t *testing.T) {
	env := newTestEnv()
	chat := env.openChat(t, "clientX", "barberA")

	msg, err := env.svc.SendMessage(context.Background(), &models.SendMessageRequest{
		ChatID: chat.ID, SenderID: "clientX", Text: "Can I come at 10?",
	})
	require.NoError(t, err)
	assert.Equal(t, "m1", msg.ID)
	assert.Equal(t, "barberA", msg.ReceiverID)
	assert.False(t, msg.IsRead)
	assert.Equal(t, noon, msg.SentAt)

	stored := env.repo.chats[chat.ID]
	require.NotNil(t, stored.LastMessage)
	assert.Equal(t, "Can I come at 10?", stored.LastMessage.Text)
	assert.Equal(t, "clientX", stored.LastMessage.SenderID)

	require.Len(t, env.pub.events, 1)
	assert.Equal(t, domain.EventChatMessage, env.pub.events[0].Type)
	assert.Equal(t, "m1", env.pub.events[0].MessageID)
	assert.Equal(t, "barberA", env.pub.events[0].ReceiverID)
}

func TestService_SendMessage_Rejections(t *testing.T) {
	env := newTestEnv()
	chat := env.openChat(t, "clientX", "barberA")

	tests := []struct {
		name    string
		req     *models.SendMessageRequest
		wantErr error
	}{
		{name: "blank", req: &models.SendMessageRequest{ChatID: chat.ID, SenderID: "clientX", Text: "  \n"}, wantErr: ErrInvalidInput},
		{name: "too long", req: &models.SendMessageRequest{ChatID: chat.ID, SenderID: "clientX", Text: strings.Repeat("я", domain.MaxMessageLength+1)}, wantErr: ErrInvalidInput},
		{name: "stranger", req: &models.SendMessageRequest{ChatID: chat.ID, SenderID: "barberB", Text: "hi"}, wantErr: ErrAccessDenied},
		{name: "unknown chat", req: &models.SendMessageRequest{ChatID: "nope", SenderID: "clientX", Text: "hi"}, wantErr: ErrChatNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.SendMessage(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, env.repo.messages)
	assert.Empty(t, env.pub.events)
}

func TestService_SendMessage_LengthCountsCharacters(t *testing.T) {
	env := newTestEnv()
	chat := env.openChat(t, "clientX", "barberA")

	_, err := env.svc.SendMessage(context.Background(), &models.SendMessageRequest{
		ChatID: chat.ID, SenderID: "clientX", Text: strings.Repeat("я", domain.MaxMessageLength),
	})
	assert.NoError(t, err)
}

func TestService_MarkRead(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	chat := env.openChat(t, "clientX", "barberA")

	for _, req := range []*models.SendMessageRequest{
		{ChatID: chat.ID, SenderID: "clientX", Text: "hello"},
		{ChatID: chat.ID, SenderID: "clientX", Text: "are you free?"},
		{ChatID: chat.ID, SenderID: "barberA", Text: "yes"},
	} {
		_, err := env.svc.SendMessage(ctx, req)
		require.NoError(t, err)
	}
	env.pub.events = nil

	got, err := env.svc.MarkRead(ctx, chat.ID, "barberA")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Updated)
	require.Len(t, env.pub.events, 1)
	assert.Equal(t, domain.EventChatRead, env.pub.events[0].Type)

	// сообщение мастера клиенту не тронуто
	messages, err := env.svc.ListMessages(ctx, chat.ID, "clientX")
	require.NoError(t, err)
	require.Len(t, messages.Messages, 3)
	assert.True(t, messages.Messages[0].IsRead)
	assert.False(t, messages.Messages[2].IsRead)

	// повторная отметка ничего не меняет и ничего не публикует
	got, err = env.svc.MarkRead(ctx, chat.ID, "barberA")
	require.NoError(t, err)
	assert.Zero(t, got.Updated)
	assert.Len(t, env.pub.events, 1)

	_, err = env.svc.MarkRead(ctx, chat.ID, "barberB")
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_ListChats(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	withA := env.openChat(t, "clientX", "barberA")
	withB := env.openChat(t, "clientX", "barberB")
	env.openChat(t, "clientY", "barberA")

	_, err := env.svc.SendMessage(ctx, &models.SendMessageRequest{ChatID: withB.ID, SenderID: "barberB", Text: "see you"})
	require.NoError(t, err)

	got, err := env.svc.ListChats(ctx, "clientX")
	require.NoError(t, err)
	require.Len(t, got.Chats, 2)
	assert.Equal(t, withB.ID, got.Chats[0].ID)
	assert.Equal(t, 1, got.Chats[0].UnreadCount)
	assert.Equal(t, "Barber B", got.Chats[0].Participant.Name)
	assert.Equal(t, withA.ID, got.Chats[1].ID)
	assert.Zero(t, got.Chats[1].UnreadCount)
}

func TestService_ListChats_SkipsMissingProfile(t *testing.T) {
	env := newTestEnv()
	env.repo.chats[domain.ChatID("clientX", "gone")] = domain.NewChat("clientX", "gone")
	env.openChat(t, "clientX", "barberA")

	got, err := env.svc.ListChats(context.Background(), "clientX")
	require.NoError(t, err)
	require.Len(t, got.Chats, 1)
	assert.Equal(t, "barberA", got.Chats[0].Participant.ID)
}

func TestService_ListMessages_Access(t *testing.T) {
	env := newTestEnv()
	chat := env.openChat(t, "clientX", "barberA")

	_, err := env.svc.ListMessages(context.Background(), chat.ID, "clientY")
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = env.svc.ListMessages(context.Background(), "nope", "clientX")
	assert.ErrorIs(t, err, ErrChatNotFound)
}

func TestService_WatchMessages(t *testing.T) {
	env := newTestEnv()
	chat := env.openChat(t, "clientX", "barberA")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, err := env.svc.WatchMessages(ctx, chat.ID, "barberA")
	require.NoError(t, err)

	initial := <-updates
	assert.Equal(t, chat.ID, initial.ChatID)
	assert.Empty(t, initial.Messages)

	_, err = env.svc.SendMessage(ctx, &models.SendMessageRequest{ChatID: chat.ID, SenderID: "clientX", Text: "hello"})
	require.NoError(t, err)
	env.sub.ch <- domain.ChatEvent{Type: domain.EventChatMessage, ChatID: chat.ID}

	select {
	case snapshot := <-updates:
		require.Len(t, snapshot.Messages, 1)
		assert.Equal(t, "hello", snapshot.Messages[0].Text)
	case <-time.After(time.Second):
		t.Fatal("no messages after event")
	}

	cancel()
	select {
	case _, ok := <-updates:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("updates channel not closed")
	}
}

func TestService_WatchMessages_Rejections(t *testing.T) {
	env := newTestEnv()
	chat := env.openChat(t, "clientX", "barberA")

	_, err := env.svc.WatchMessages(context.Background(), chat.ID, "barberB")
	assert.ErrorIs(t, err, ErrAccessDenied)

	disabled := NewService(env.repo, fakeUserRepo{}, env.tx, nil, nil, logger.NewNop())
	_, err = disabled.WatchMessages(context.Background(), chat.ID, "clientX")
	assert.ErrorIs(t, err, ErrLiveUpdatesDisabled)
}
