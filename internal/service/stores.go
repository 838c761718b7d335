package service

import (
	"context"
	"io"

	"adotapet/api/internal/models"
)

// The services accept narrow store interfaces, satisfied by the pgx-backed
// repositories in production and by in-memory fakes in tests.

type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	CountAll(ctx context.Context) (int64, error)
}

type PetStore interface {
	Create(ctx context.Context, pet models.Pet) error
	GetByID(ctx context.Context, id string) (models.Pet, error)
	List(ctx context.Context, publishedOnly bool) ([]models.Pet, error)
	Update(ctx context.Context, pet models.Pet) error
	UpdateImageURL(ctx context.Context, id string, imageURL string) error
	Delete(ctx context.Context, id string) error
	CountPublished(ctx context.Context) (int64, error)
	CountDistinctCities(ctx context.Context) (int64, error)
}

type ChatStore interface {
	FindOrCreateRoom(ctx context.Context, petID *string, user1ID, user2ID string) (models.ChatRoom, bool, error)
	GetRoom(ctx context.Context, id string) (models.ChatRoom, error)
	ListRoomsByUser(ctx context.Context, userID string) ([]models.ChatRoom, error)
	InsertMessage(ctx context.Context, msg models.Message) (models.Message, error)
	ListMessages(ctx context.Context, roomID string) ([]models.Message, error)
}

type PhotoStore interface {
	PutPetPhoto(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) (string, error)
}
