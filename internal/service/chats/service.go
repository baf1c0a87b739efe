package chats

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	chatRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/chat"
	userRepo "github.com/m04kA/SMC-BarberBooking/internal/infra/storage/user"
	"github.com/m04kA/SMC-BarberBooking/internal/service/chats/models"
)

// Service сервис переписки клиентов и мастеров
type Service struct {
	chatRepo     ChatRepository
	userRepo     UserRepository
	txManager    TransactionManager
	publisher    EventPublisher
	subscriber   EventSubscriber
	newID        IDGenerator
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса чатов.
// publisher и subscriber могут быть nil.
func NewService(
	chatRepo ChatRepository,
	userRepo UserRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	subscriber EventSubscriber,
	logger Logger,
) *Service {
	return &Service{
		chatRepo:     chatRepo,
		userRepo:     userRepo,
		txManager:    txManager,
		publisher:    publisher,
		subscriber:   subscriber,
		newID:        uuid.NewString,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// OpenChat возвращает чат пользователя с собеседником, создавая его при первом обращении.
// Переписка возможна только между клиентом и мастером.
func (s *Service) OpenChat(ctx context.Context, req *models.OpenChatRequest) (*models.ChatResponse, error) {
	s.logger.Info("OpenChat: user=%s opens chat with %s", req.UserID, req.ParticipantID)

	// 1. Собеседник указан и это не сам пользователь
	if req.ParticipantID == "" || req.ParticipantID == req.UserID {
		return nil, fmt.Errorf("%w: participantId must reference another user", ErrInvalidInput)
	}

	// 2. Профили обоих участников
	me, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("OpenChat: user=%s has no profile", req.UserID)
			return nil, ErrProfileRequired
		}
		s.logger.Error("OpenChat: user repository error for user=%s: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: OpenChat - user repository error: %v", ErrInternal, err)
	}

	other, err := s.userRepo.GetByID(ctx, req.ParticipantID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("OpenChat: participant=%s not found", req.ParticipantID)
			return nil, ErrParticipantNotFound
		}
		s.logger.Error("OpenChat: user repository error for user=%s: %v", req.ParticipantID, err)
		return nil, fmt.Errorf("%w: OpenChat - user repository error: %v", ErrInternal, err)
	}

	// 3. Клиент пишет мастеру или мастер клиенту
	if me.Role == other.Role {
		s.logger.Warn("OpenChat: user=%s and %s are both %s", me.ID, other.ID, me.Role)
		return nil, fmt.Errorf("%w: chat is only available between a client and a barber", ErrInvalidInput)
	}

	// 4. Создание (идемпотентно) и чтение чата
	var chat *domain.Chat
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.chatRepo.Ensure(ctx, domain.NewChat(me.ID, other.ID)); err != nil {
			return err
		}
		found, err := s.chatRepo.GetByID(ctx, domain.ChatID(me.ID, other.ID))
		if err != nil {
			return err
		}
		chat = found
		return nil
	})
	if err != nil {
		s.logger.Error("OpenChat: repository error for users %s and %s: %v", me.ID, other.ID, err)
		return nil, fmt.Errorf("%w: OpenChat - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("OpenChat: chat id=%s ready for user=%s", chat.ID, me.ID)
	return models.FromDomainChat(chat, other), nil
}

// ListChats получает чаты пользователя, свежие сверху.
// Чаты, собеседник которых удалил профиль, пропускаются.
func (s *Service) ListChats(ctx context.Context, userID string) (*models.ChatListResponse, error) {
	chats, err := s.chatRepo.ListByParticipant(ctx, userID)
	if err != nil {
		s.logger.Error("ListChats: repository error for user=%s: %v", userID, err)
		return nil, fmt.Errorf("%w: ListChats - repository error: %v", ErrInternal, err)
	}

	resp := &models.ChatListResponse{Chats: make([]models.ChatResponse, 0, len(chats))}
	for _, chat := range chats {
		other, err := s.userRepo.GetByID(ctx, chat.Other(userID))
		if err != nil {
			if errors.Is(err, userRepo.ErrUserNotFound) {
				s.logger.Warn("ListChats: skip chat id=%s, participant profile is missing", chat.ID)
				continue
			}
			s.logger.Error("ListChats: user repository error for chat id=%s: %v", chat.ID, err)
			return nil, fmt.Errorf("%w: ListChats - user repository error: %v", ErrInternal, err)
		}
		resp.Chats = append(resp.Chats, *models.FromDomainChat(chat, other))
	}

	s.logger.Info("ListChats: fetched %d chats for user=%s", len(resp.Chats), userID)
	return resp, nil
}

// ListMessages получает сообщения чата в порядке отправки. Доступно только участникам.
func (s *Service) ListMessages(ctx context.Context, chatID, userID string) (*models.MessageListResponse, error) {
	if _, err := s.participantChat(ctx, "ListMessages", chatID, userID); err != nil {
		return nil, err
	}

	messages, err := s.chatRepo.ListMessages(ctx, chatID)
	if err != nil {
		s.logger.Error("ListMessages: repository error for chat id=%s: %v", chatID, err)
		return nil, fmt.Errorf("%w: ListMessages - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainMessageList(chatID, messages), nil
}

// SendMessage сохраняет сообщение и обновляет превью чата в одной транзакции
func (s *Service) SendMessage(ctx context.Context, req *models.SendMessageRequest) (*models.MessageResponse, error) {
	s.logger.Info("SendMessage: user=%s writes to chat id=%s", req.SenderID, req.ChatID)

	// 1. Текст
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("%w: text is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(req.Text) > domain.MaxMessageLength {
		return nil, fmt.Errorf("%w: text is longer than %d characters", ErrInvalidInput, domain.MaxMessageLength)
	}

	// 2. Отправитель участник чата
	chat, err := s.participantChat(ctx, "SendMessage", req.ChatID, req.SenderID)
	if err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ID:         s.newID(),
		ChatID:     chat.ID,
		SenderID:   req.SenderID,
		ReceiverID: chat.Other(req.SenderID),
		Text:       req.Text,
		SentAt:     s.timeProvider.Now().UTC(),
	}

	// 3. Сообщение и превью сохраняются вместе
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		if err := s.chatRepo.InsertMessage(ctx, msg); err != nil {
			return err
		}
		return s.chatRepo.UpdateLastMessage(ctx, msg)
	})
	if err != nil {
		s.logger.Error("SendMessage: repository error for chat id=%s: %v", chat.ID, err)
		return nil, fmt.Errorf("%w: SendMessage - repository error: %v", ErrInternal, err)
	}

	s.publish(ctx, domain.ChatEvent{
		Type:       domain.EventChatMessage,
		ChatID:     chat.ID,
		MessageID:  msg.ID,
		SenderID:   msg.SenderID,
		ReceiverID: msg.ReceiverID,
	})

	s.logger.Info("SendMessage: message id=%s sent to chat id=%s", msg.ID, chat.ID)
	return models.FromDomainMessage(msg), nil
}

// MarkRead отмечает прочитанными все сообщения чата, адресованные пользователю
func (s *Service) MarkRead(ctx context.Context, chatID, userID string) (*models.MarkReadResponse, error) {
	if _, err := s.participantChat(ctx, "MarkRead", chatID, userID); err != nil {
		return nil, err
	}

	updated, err := s.chatRepo.MarkRead(ctx, chatID, userID)
	if err != nil {
		s.logger.Error("MarkRead: repository error for chat id=%s: %v", chatID, err)
		return nil, fmt.Errorf("%w: MarkRead - repository error: %v", ErrInternal, err)
	}

	if updated > 0 {
		s.publish(ctx, domain.ChatEvent{Type: domain.EventChatRead, ChatID: chatID, ReceiverID: userID})
	}

	s.logger.Info("MarkRead: %d messages read in chat id=%s by user=%s", updated, chatID, userID)
	return &models.MarkReadResponse{ChatID: chatID, Updated: updated}, nil
}

// WatchMessages отдаёт сообщения чата: сначала текущий список,
// затем новый список после каждого события чата. Канал закрывается, когда ctx завершён.
func (s *Service) WatchMessages(ctx context.Context, chatID, userID string) (<-chan *models.MessageListResponse, error) {
	if s.subscriber == nil {
		return nil, ErrLiveUpdatesDisabled
	}

	if _, err := s.participantChat(ctx, "WatchMessages", chatID, userID); err != nil {
		return nil, err
	}

	// Подписываемся до первого запроса, чтобы не пропустить сообщения между ними
	events, err := s.subscriber.SubscribeChat(ctx, chatID)
	if err != nil {
		s.logger.Error("WatchMessages: subscribe failed for chat id=%s: %v", chatID, err)
		return nil, fmt.Errorf("%w: WatchMessages - subscribe: %v", ErrInternal, err)
	}

	initial, err := s.chatRepo.ListMessages(ctx, chatID)
	if err != nil {
		s.logger.Error("WatchMessages: repository error for chat id=%s: %v", chatID, err)
		return nil, fmt.Errorf("%w: WatchMessages - repository error: %v", ErrInternal, err)
	}

	out := make(chan *models.MessageListResponse, 1)
	out <- models.FromDomainMessageList(chatID, initial)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-events:
				if !ok {
					return
				}
				messages, err := s.chatRepo.ListMessages(ctx, chatID)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					s.logger.Error("WatchMessages: refresh after %s failed for chat id=%s: %v", event.Type, chatID, err)
					continue
				}
				select {
				case out <- models.FromDomainMessageList(chatID, messages):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// Вспомогательные методы

func (s *Service) participantChat(ctx context.Context, op, chatID, userID string) (*domain.Chat, error) {
	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, chatRepo.ErrChatNotFound) {
			s.logger.Warn("%s: chat id=%s not found", op, chatID)
			return nil, ErrChatNotFound
		}
		s.logger.Error("%s: repository error for chat id=%s: %v", op, chatID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	if !chat.HasParticipant(userID) {
		s.logger.Warn("%s: access denied for user=%s to chat id=%s", op, userID, chatID)
		return nil, ErrAccessDenied
	}
	return chat, nil
}

// publish отправляет событие; ошибка публикации не влияет на результат операции
func (s *Service) publish(ctx context.Context, event domain.ChatEvent) {
	if s.publisher == nil {
		return
	}
	event.OccurredAt = s.timeProvider.Now()
	if err := s.publisher.PublishChat(ctx, event); err != nil {
		s.logger.Warn("publish: failed to publish %s for chat id=%s: %v", event.Type, event.ChatID, err)
	}
}
