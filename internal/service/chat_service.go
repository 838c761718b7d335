package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"adotapet/api/internal/ids"
	"adotapet/api/internal/models"
)

type ChatService struct {
	rooms ChatStore
	users UserStore
	pets  PetStore
	log   zerolog.Logger
}

func NewChatService(rooms ChatStore, users UserStore, pets PetStore, log zerolog.Logger) *ChatService {
	return &ChatService{
		rooms: rooms,
		users: users,
		pets:  pets,
		log:   log,
	}
}

// canonicalPair orders two user ids ascending. Both call orders of a pair
// map to the same (user1, user2) tuple, which is what keeps the room unique.
func canonicalPair(a, b string) (string, string) {
	if strings.Compare(a, b) > 0 {
		return b, a
	}
	return a, b
}

type RoomResult struct {
	Room    models.ChatRoom
	Created bool
}

// OpenRoom resolves the single room between the requester and another user
// about a pet, creating it on first contact.
func (s *ChatService) OpenRoom(ctx context.Context, requesterID, otherUserID string, petID *string) (RoomResult, error) {
	other, err := s.users.GetByID(ctx, otherUserID)
	if err != nil {
		return RoomResult{}, err
	}
	if petID != nil {
		if _, err := s.pets.GetByID(ctx, *petID); err != nil {
			return RoomResult{}, err
		}
	}
	if other.ID == requesterID {
		return RoomResult{}, ErrSelfChat
	}

	user1, user2 := canonicalPair(requesterID, other.ID)
	room, created, err := s.rooms.FindOrCreateRoom(ctx, petID, user1, user2)
	if err != nil {
		return RoomResult{}, err
	}
	if created {
		s.log.Info().Str("room_id", room.ID).Msg("chat room created")
	}
	return RoomResult{Room: room, Created: created}, nil
}

// OpenRoomByPet resolves the room between the requester and a pet's owner.
func (s *ChatService) OpenRoomByPet(ctx context.Context, requesterID, petID string) (RoomResult, error) {
	pet, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return RoomResult{}, err
	}
	if pet.CreatedBy == requesterID {
		return RoomResult{}, ErrSelfChat
	}
	return s.OpenRoom(ctx, requesterID, pet.CreatedBy, &pet.ID)
}

func (s *ChatService) ListRooms(ctx context.Context, userID string) ([]models.ChatRoom, error) {
	return s.rooms.ListRoomsByUser(ctx, userID)
}

// PostMessage appends to a room. Only the two participants may write; the
// timestamp is always assigned server side.
func (s *ChatService) PostMessage(ctx context.Context, senderID, roomID, content string) (models.Message, error) {
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return models.Message{}, err
	}
	if !room.Involves(senderID) {
		return models.Message{}, ErrNotParticipant
	}

	msg := models.Message{
		ID:       ids.New(),
		RoomID:   room.ID,
		SenderID: senderID,
		Content:  content,
	}
	return s.rooms.InsertMessage(ctx, msg)
}

// ListMessages returns a room's history oldest first, participants only.
func (s *ChatService) ListMessages(ctx context.Context, callerID, roomID string) ([]models.Message, error) {
	room, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.Involves(callerID) {
		return nil, ErrNotParticipant
	}
	return s.rooms.ListMessages(ctx, roomID)
}
