package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"messenger/internal/domain"
	"messenger/pkg/logger"
)

type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	// Conversation returns the full two-way history between two users in
	// timestamp order. Soft-deleted messages are excluded here, not by the
	// callers, so every read path shares the same filtering rule.
	Conversation(ctx context.Context, userID, otherID int64) ([]*domain.Message, error)
	// MarkConversationRead flips every unread message from sender to receiver
	// in one statement and reports how many rows changed.
	MarkConversationRead(ctx context.Context, senderID, receiverID int64) (int64, error)
	// SoftDelete marks the subset of ids that belong to senderID and are not
	// already deleted, returning exactly the ids that changed. The single
	// UPDATE ... RETURNING makes concurrent duplicate calls race-free: a row
	// is flipped once or not at all.
	SoftDelete(ctx context.Context, ids []int64, senderID int64) ([]int64, error)
	// UnreadCounts returns, per sender, how many unread messages receiverID has.
	UnreadCounts(ctx context.Context, receiverID int64) (map[int64]int64, error)
}

type messageRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewMessageRepository(db *pgxpool.Pool, log logger.Logger) MessageRepository {
	return &messageRepository{db: db, log: log}
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	query := `
		INSERT INTO messages (sender_id, receiver_id, content, timestamp, is_read, is_deleted)
		VALUES ($1, $2, $3, $4, false, false)
		RETURNING id, timestamp
	`

	err := r.db.QueryRow(ctx, query,
		message.SenderID, message.ReceiverID, message.Content, message.Timestamp,
	).Scan(&message.ID, &message.Timestamp)

	if err != nil {
		r.log.Error("Failed to create message", "error", err)
		return err
	}

	return nil
}

func (r *messageRepository) Conversation(ctx context.Context, userID, otherID int64) ([]*domain.Message, error) {
	query := `
		SELECT id, sender_id, receiver_id, content, timestamp, is_read, is_deleted
		FROM messages
		WHERE ((sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1))
		  AND is_deleted = false
		ORDER BY timestamp
	`

	rows, err := r.db.Query(ctx, query, userID, otherID)
	if err != nil {
		r.log.Error("Failed to get conversation", "error", err)
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		message := &domain.Message{}
		err := rows.Scan(
			&message.ID, &message.SenderID, &message.ReceiverID,
			&message.Content, &message.Timestamp, &message.IsRead, &message.IsDeleted,
		)
		if err != nil {
			r.log.Error("Failed to scan message", "error", err)
			return nil, err
		}
		messages = append(messages, message)
	}

	return messages, rows.Err()
}

func (r *messageRepository) MarkConversationRead(ctx context.Context, senderID, receiverID int64) (int64, error) {
	query := `
		UPDATE messages
		SET is_read = true
		WHERE sender_id = $1 AND receiver_id = $2 AND is_read = false
	`

	tag, err := r.db.Exec(ctx, query, senderID, receiverID)
	if err != nil {
		r.log.Error("Failed to mark conversation read", "error", err)
		return 0, err
	}

	return tag.RowsAffected(), nil
}

func (r *messageRepository) SoftDelete(ctx context.Context, ids []int64, senderID int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		UPDATE messages
		SET is_deleted = true
		WHERE id = ANY($1) AND sender_id = $2 AND is_deleted = false
		RETURNING id
	`

	rows, err := r.db.Query(ctx, query, ids, senderID)
	if err != nil {
		r.log.Error("Failed to soft delete messages", "error", err)
		return nil, err
	}
	defer rows.Close()

	deleted, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		r.log.Error("Failed to collect deleted ids", "error", err)
		return nil, err
	}

	return deleted, nil
}

func (r *messageRepository) UnreadCounts(ctx context.Context, receiverID int64) (map[int64]int64, error) {
	query := `
		SELECT sender_id, COUNT(*)
		FROM messages
		WHERE receiver_id = $1 AND is_read = false AND is_deleted = false
		GROUP BY sender_id
	`

	rows, err := r.db.Query(ctx, query, receiverID)
	if err != nil {
		r.log.Error("Failed to get unread counts", "error", err)
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int64]int64)
	for rows.Next() {
		var senderID, count int64
		if err := rows.Scan(&senderID, &count); err != nil {
			r.log.Error("Failed to scan unread count", "error", err)
			return nil, err
		}
		counts[senderID] = count
	}

	return counts, rows.Err()
}
