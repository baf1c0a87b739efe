package chat

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
	"github.com/m04kA/SMC-BarberBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberBooking/pkg/psqlbuilder"
)

// DBExecutor интерфейс выполнения запросов
type DBExecutor = dbmetrics.DBExecutor

var chatColumns = []string{
	"id",
	"participant_a",
	"participant_b",
	"last_message_text",
	"last_message_sender",
	"last_message_at",
	"created_at",
	"updated_at",
}

var messageColumns = []string{
	"id",
	"chat_id",
	"sender_id",
	"receiver_id",
	"text",
	"is_read",
	"sent_at",
}

// Непрочитанные сообщения, адресованные пользователю
const unreadCountColumn = `(SELECT COUNT(*) FROM chat_messages m
	WHERE m.chat_id = chats.id AND m.receiver_id = ? AND NOT m.is_read) AS unread_count`

// Repository репозиторий чатов и сообщений
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория чатов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Ensure создает чат, если его ещё нет
func (r *Repository) Ensure(ctx context.Context, chat *domain.Chat) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("chats").
		Columns("id", "participant_a", "participant_b").
		Values(chat.ID, chat.Participants[0], chat.Participants[1]).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Ensure - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Ensure - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}

// GetByID получает чат по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Chat, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(chatColumns...).
		From("chats").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	chat, err := scanChat(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrChatNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan chat: %v", ErrScanRow, err)
	}
	return chat, nil
}

// ListByParticipant получает чаты пользователя, свежие сверху.
// UnreadCount заполняется для этого пользователя.
func (r *Repository) ListByParticipant(ctx context.Context, userID string) ([]*domain.Chat, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(chatColumns...).
		Column(unreadCountColumn, userID).
		From("chats").
		Where(squirrel.Or{
			squirrel.Eq{"participant_a": userID},
			squirrel.Eq{"participant_b": userID},
		}).
		OrderBy("last_message_at DESC NULLS LAST", "created_at DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByParticipant - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByParticipant - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	chats := make([]*domain.Chat, 0)
	for rows.Next() {
		var unread int
		chat, err := scanChat(rows, &unread)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByParticipant - scan row: %v", ErrScanRow, err)
		}
		chat.UnreadCount = unread
		chats = append(chats, chat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByParticipant - rows error: %v", ErrScanRow, err)
	}
	return chats, nil
}

// InsertMessage сохраняет сообщение
func (r *Repository) InsertMessage(ctx context.Context, msg *domain.Message) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("chat_messages").
		Columns(messageColumns...).
		Values(msg.ID, msg.ChatID, msg.SenderID, msg.ReceiverID, msg.Text, msg.IsRead, msg.SentAt).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: InsertMessage - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: InsertMessage - execute insert: %v", ErrExecQuery, err)
	}
	return nil
}

// UpdateLastMessage обновляет превью последнего сообщения чата
func (r *Repository) UpdateLastMessage(ctx context.Context, msg *domain.Message) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("chats").
		Set("last_message_text", msg.Text).
		Set("last_message_sender", msg.SenderID).
		Set("last_message_at", msg.SentAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": msg.ChatID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateLastMessage - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateLastMessage - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateLastMessage - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrChatNotFound
	}
	return nil
}

// ListMessages получает сообщения чата в порядке отправки
func (r *Repository) ListMessages(ctx context.Context, chatID string) ([]*domain.Message, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(messageColumns...).
		From("chat_messages").
		Where(squirrel.Eq{"chat_id": chatID}).
		OrderBy("sent_at ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListMessages - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListMessages - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	messages := make([]*domain.Message, 0)
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.ChatID,
			&msg.SenderID,
			&msg.ReceiverID,
			&msg.Text,
			&msg.IsRead,
			&msg.SentAt,
		); err != nil {
			return nil, fmt.Errorf("%w: ListMessages - scan row: %v", ErrScanRow, err)
		}
		messages = append(messages, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListMessages - rows error: %v", ErrScanRow, err)
	}
	return messages, nil
}

// MarkRead отмечает прочитанными сообщения чата, адресованные receiverID.
// Возвращает число изменённых сообщений.
func (r *Repository) MarkRead(ctx context.Context, chatID, receiverID string) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("chat_messages").
		Set("is_read", true).
		Where(squirrel.Eq{"chat_id": chatID}).
		Where(squirrel.Eq{"receiver_id": receiverID}).
		Where("NOT is_read").
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: MarkRead - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: MarkRead - execute update: %v", ErrExecQuery, err)
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: MarkRead - get rows affected: %v", ErrExecQuery, err)
	}
	return updated, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanChat(row rowScanner, extra ...interface{}) (*domain.Chat, error) {
	var chat domain.Chat
	var text, sender sql.NullString
	var lastAt, createdAt, updatedAt sql.NullTime

	dest := []interface{}{
		&chat.ID,
		&chat.Participants[0],
		&chat.Participants[1],
		&text,
		&sender,
		&lastAt,
		&createdAt,
		&updatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	if lastAt.Valid {
		chat.LastMessage = &domain.LastMessage{
			Text:     text.String,
			SenderID: sender.String,
			SentAt:   lastAt.Time,
		}
	}
	chat.CreatedAt = createdAt.Time
	chat.UpdatedAt = updatedAt.Time
	return &chat, nil
}
