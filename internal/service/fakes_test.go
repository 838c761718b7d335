package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"adotapet/api/internal/models"
	"adotapet/api/internal/repository"
)

// In-memory stores standing in for the pgx repositories. They reproduce the
// repository contracts, including the sentinel errors and the chat room
// uniqueness guarantee.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]models.User)}
}

func (f *fakeUserStore) Create(_ context.Context, user models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return repository.ErrUserExists
		}
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) CountAll(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.users)), nil
}

func (f *fakeUserStore) put(user models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
}

type fakePetStore struct {
	mu   sync.Mutex
	pets map[string]models.Pet
}

func newFakePetStore() *fakePetStore {
	return &fakePetStore{pets: make(map[string]models.Pet)}
}

func (f *fakePetStore) Create(_ context.Context, pet models.Pet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	pet.CreatedAt = time.Now()
	pet.UpdatedAt = pet.CreatedAt
	f.pets[pet.ID] = pet
	return nil
}

func (f *fakePetStore) GetByID(_ context.Context, id string) (models.Pet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pet, ok := f.pets[id]
	if !ok {
		return models.Pet{}, repository.ErrPetNotFound
	}
	return pet, nil
}

func (f *fakePetStore) List(_ context.Context, publishedOnly bool) ([]models.Pet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var pets []models.Pet
	for _, pet := range f.pets {
		if publishedOnly && !pet.IsPublished {
			continue
		}
		pets = append(pets, pet)
	}
	sort.Slice(pets, func(i, j int) bool { return pets[i].ID < pets[j].ID })
	return pets, nil
}

func (f *fakePetStore) Update(_ context.Context, pet models.Pet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.pets[pet.ID]
	if !ok {
		return repository.ErrPetNotFound
	}
	pet.CreatedAt = existing.CreatedAt
	pet.UpdatedAt = time.Now()
	f.pets[pet.ID] = pet
	return nil
}

func (f *fakePetStore) UpdateImageURL(_ context.Context, id string, imageURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	pet, ok := f.pets[id]
	if !ok {
		return repository.ErrPetNotFound
	}
	pet.ImageURL = &imageURL
	f.pets[id] = pet
	return nil
}

func (f *fakePetStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.pets[id]; !ok {
		return repository.ErrPetNotFound
	}
	delete(f.pets, id)
	return nil
}

func (f *fakePetStore) CountPublished(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, pet := range f.pets {
		if pet.IsPublished {
			count++
		}
	}
	return count, nil
}

func (f *fakePetStore) CountDistinctCities(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cities := make(map[string]struct{})
	for _, pet := range f.pets {
		cities[pet.City] = struct{}{}
	}
	return int64(len(cities)), nil
}

type fakeChatStore struct {
	mu       sync.Mutex
	byPair   map[string]models.ChatRoom
	byID     map[string]models.ChatRoom
	messages []models.Message
	clock    int
}

func newFakeChatStore() *fakeChatStore {
	return &fakeChatStore{
		byPair: make(map[string]models.ChatRoom),
		byID:   make(map[string]models.ChatRoom),
	}
}

func pairKey(petID *string, user1ID, user2ID string) string {
	pet := ""
	if petID != nil {
		pet = *petID
	}
	return fmt.Sprintf("%s|%s|%s", pet, user1ID, user2ID)
}

func (f *fakeChatStore) FindOrCreateRoom(_ context.Context, petID *string, user1ID, user2ID string) (models.ChatRoom, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := pairKey(petID, user1ID, user2ID)
	if room, ok := f.byPair[key]; ok {
		return room, false, nil
	}

	room := models.ChatRoom{
		ID:        fmt.Sprintf("room-%d", len(f.byID)+1),
		PetID:     petID,
		User1ID:   user1ID,
		User2ID:   user2ID,
		CreatedAt: time.Now(),
	}
	f.byPair[key] = room
	f.byID[room.ID] = room
	return room, true, nil
}

func (f *fakeChatStore) GetRoom(_ context.Context, id string) (models.ChatRoom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.byID[id]
	if !ok {
		return models.ChatRoom{}, repository.ErrRoomNotFound
	}
	return room, nil
}

func (f *fakeChatStore) ListRoomsByUser(_ context.Context, userID string) ([]models.ChatRoom, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rooms []models.ChatRoom
	for _, room := range f.byID {
		if room.Involves(userID) {
			rooms = append(rooms, room)
		}
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms, nil
}

func (f *fakeChatStore) InsertMessage(_ context.Context, msg models.Message) (models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clock++
	msg.SentAt = time.Unix(1700000000, 0).Add(time.Duration(f.clock) * time.Millisecond)
	f.messages = append(f.messages, msg)
	return msg, nil
}

func (f *fakeChatStore) ListMessages(_ context.Context, roomID string) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	messages := make([]models.Message, 0)
	for _, msg := range f.messages {
		if msg.RoomID == roomID {
			messages = append(messages, msg)
		}
	}
	sort.Slice(messages, func(i, j int) bool {
		if messages[i].SentAt.Equal(messages[j].SentAt) {
			return messages[i].ID < messages[j].ID
		}
		return messages[i].SentAt.Before(messages[j].SentAt)
	})
	return messages, nil
}

type fakePhotoStore struct {
	mu   sync.Mutex
	puts map[string]string
}

func newFakePhotoStore() *fakePhotoStore {
	return &fakePhotoStore{puts: make(map[string]string)}
}

func (f *fakePhotoStore) PutPetPhoto(_ context.Context, objectKey string, reader io.Reader, size int64, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return "", err
	}
	f.puts[objectKey] = contentType
	return "https://cdn.test/pets/" + objectKey, nil
}
