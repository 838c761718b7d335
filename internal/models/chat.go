package models

import "time"

// ChatRoom links two users talking about a pet. User1ID and User2ID are
// stored in canonical order (User1ID < User2ID) so that a pair resolves to
// the same row no matter who opened the conversation.
type ChatRoom struct {
	ID        string
	PetID     *string
	User1ID   string
	User2ID   string
	CreatedAt time.Time
}

// Involves reports whether userID occupies either slot of the room.
func (r ChatRoom) Involves(userID string) bool {
	return r.User1ID == userID || r.User2ID == userID
}

type Message struct {
	ID       string
	RoomID   string
	SenderID string
	Content  string
	SentAt   time.Time
}
