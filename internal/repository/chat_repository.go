package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"adotapet/api/internal/ids"
	"adotapet/api/internal/models"
)

var ErrRoomNotFound = errors.New("chat room not found")

type ChatRepository struct {
	pool *pgxpool.Pool
}

func NewChatRepository(pool *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{pool: pool}
}

const roomColumns = `id, pet_id, user1_id, user2_id, created_at`

// FindOrCreateRoom returns the room for the canonical pair (user1 < user2)
// and pet, inserting it when absent. The insert relies on the table's unique
// constraint: under a concurrent race the loser's INSERT affects zero rows
// and the follow-up read returns the winner's row, so exactly one room ever
// exists for a pair and pet.
func (r *ChatRepository) FindOrCreateRoom(ctx context.Context, petID *string, user1ID, user2ID string) (models.ChatRoom, bool, error) {
	const insert = `
		INSERT INTO chat_rooms (id, pet_id, user1_id, user2_id, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT ON CONSTRAINT chat_rooms_pair_unique DO NOTHING
	`

	roomID := ids.New()
	cmd, err := r.pool.Exec(ctx, insert, roomID, petID, user1ID, user2ID)
	if err != nil {
		return models.ChatRoom{}, false, err
	}
	created := cmd.RowsAffected() > 0

	const query = `
		SELECT ` + roomColumns + `
		FROM chat_rooms
		WHERE pet_id IS NOT DISTINCT FROM $1 AND user1_id = $2 AND user2_id = $3
	`
	room, err := scanRoom(r.pool.QueryRow(ctx, query, petID, user1ID, user2ID))
	if err != nil {
		return models.ChatRoom{}, false, err
	}
	return room, created, nil
}

func (r *ChatRepository) GetRoom(ctx context.Context, id string) (models.ChatRoom, error) {
	const query = `SELECT ` + roomColumns + ` FROM chat_rooms WHERE id = $1`
	return scanRoom(r.pool.QueryRow(ctx, query, id))
}

func (r *ChatRepository) ListRoomsByUser(ctx context.Context, userID string) ([]models.ChatRoom, error) {
	const query = `
		SELECT ` + roomColumns + `
		FROM chat_rooms
		WHERE user1_id = $1 OR user2_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []models.ChatRoom
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

func (r *ChatRepository) InsertMessage(ctx context.Context, msg models.Message) (models.Message, error) {
	const query = `
		INSERT INTO messages (id, room_id, sender_id, content, sent_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING sent_at
	`

	if err := r.pool.QueryRow(ctx, query, msg.ID, msg.RoomID, msg.SenderID, msg.Content).Scan(&msg.SentAt); err != nil {
		return models.Message{}, err
	}
	return msg, nil
}

// ListMessages returns a room's messages oldest first. Id is the tiebreak
// for equal timestamps; ksuids preserve insertion order.
func (r *ChatRepository) ListMessages(ctx context.Context, roomID string) ([]models.Message, error) {
	const query = `
		SELECT id, room_id, sender_id, content, sent_at
		FROM messages
		WHERE room_id = $1
		ORDER BY sent_at ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.RoomID,
			&msg.SenderID,
			&msg.Content,
			&msg.SentAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func scanRoom(row pgx.Row) (models.ChatRoom, error) {
	var room models.ChatRoom
	if err := row.Scan(
		&room.ID,
		&room.PetID,
		&room.User1ID,
		&room.User2ID,
		&room.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ChatRoom{}, ErrRoomNotFound
		}
		return models.ChatRoom{}, err
	}
	return room, nil
}
