package chat

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/internal/domain"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestRepository_Ensure(t *testing.T) {
	repo, mock := newMock(t)
	chat := domain.NewChat("clientX", "barberA")

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO chats (id,participant_a,participant_b) VALUES ($1,$2,$3) ON CONFLICT (id) DO NOTHING")).
		WithArgs(chat.ID, "barberA", "clientX").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Ensure(context.Background(), chat))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM chats WHERE id = $1")).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows(chatColumns).
			AddRow("c1", "barberA", "clientX", "see you", "clientX", now, now, now))

	got, err := repo.GetByID(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, [2]string{"barberA", "clientX"}, got.Participants)
	require.NotNil(t, got.LastMessage)
	assert.Equal(t, "see you", got.LastMessage.Text)
	assert.Equal(t, now, got.LastMessage.SentAt)

	mock.ExpectQuery(regexp.QuoteMeta("FROM chats WHERE id = $1")).
		WithArgs("c2").
		WillReturnRows(sqlmock.NewRows(chatColumns))

	_, err = repo.GetByID(context.Background(), "c2")
	assert.ErrorIs(t, err, ErrChatNotFound)
}

func TestRepository_ListByParticipant(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM chats WHERE (participant_a = $2 OR participant_b = $3) ORDER BY last_message_at DESC NULLS LAST, created_at DESC")).
		WithArgs("clientX", "clientX", "clientX").
		WillReturnRows(sqlmock.NewRows(append(chatColumns, "unread_count")).
			AddRow("c1", "barberA", "clientX", "hi", "barberA", now, now, now, 2).
			AddRow("c2", "barberB", "clientX", nil, nil, nil, now, now, 0))

	got, err := repo.ListByParticipant(context.Background(), "clientX")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, got[0].UnreadCount)
	assert.Equal(t, "barberA", got[0].LastMessage.SenderID)
	assert.Nil(t, got[1].LastMessage)
}

func TestRepository_InsertMessageAndUpdateLast(t *testing.T) {
	repo, mock := newMock(t)
	sentAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	msg := &domain.Message{
		ID: "m1", ChatID: "c1", SenderID: "clientX", ReceiverID: "barberA", Text: "hello", SentAt: sentAt,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO chat_messages (id,chat_id,sender_id,receiver_id,text,is_read,sent_at) VALUES ($1,$2,$3,$4,$5,$6,$7)")).
		WithArgs("m1", "c1", "clientX", "barberA", "hello", false, sentAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE chats SET last_message_text = $1, last_message_sender = $2, last_message_at = $3, updated_at = NOW() WHERE id = $4")).
		WithArgs("hello", "clientX", sentAt, "c1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.InsertMessage(context.Background(), msg))
	require.NoError(t, repo.UpdateLastMessage(context.Background(), msg))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateLastMessage_NotFound(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE chats SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateLastMessage(context.Background(), &domain.Message{ChatID: "missing"})
	assert.ErrorIs(t, err, ErrChatNotFound)
}

func TestRepository_ListMessages(t *testing.T) {
	repo, mock := newMock(t)
	t1 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)

	mock.ExpectQuery(regexp.QuoteMeta("FROM chat_messages WHERE chat_id = $1 ORDER BY sent_at ASC, id ASC")).
		WithArgs("c1").
		WillReturnRows(sqlmock.NewRows(messageColumns).
			AddRow("m1", "c1", "clientX", "barberA", "hello", true, t1).
			AddRow("m2", "c1", "barberA", "clientX", "hi!", false, t2))

	got, err := repo.ListMessages(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].IsRead)
	assert.Equal(t, "barberA", got[1].SenderID)
}

func TestRepository_MarkRead(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE chat_messages SET is_read = $1 WHERE chat_id = $2 AND receiver_id = $3 AND NOT is_read")).
		WithArgs(true, "c1", "clientX").
		WillReturnResult(sqlmock.NewResult(0, 3))

	updated, err := repo.MarkRead(context.Background(), "c1", "clientX")
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated)
}
