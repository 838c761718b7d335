package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"adotapet/api/internal/ids"
	"adotapet/api/internal/media/sniffer"
	"adotapet/api/internal/models"
	"adotapet/api/internal/repository"
)

const (
	statsCacheKey = "stats:v1"
	statsCacheTTL = time.Minute

	maxPhotoBytes = 10 << 20
)

var (
	ErrInvalidSpecies = errors.New("species must be dog or cat")
	ErrPhotoTooLarge  = errors.New("photo exceeds the size limit")
)

type PetService struct {
	pets   PetStore
	users  UserStore
	photos PhotoStore
	cache  *redis.Client
	log    zerolog.Logger
}

func NewPetService(pets PetStore, users UserStore, photos PhotoStore, cache *redis.Client, log zerolog.Logger) *PetService {
	return &PetService{
		pets:   pets,
		users:  users,
		photos: photos,
		cache:  cache,
		log:    log,
	}
}

type PetInput struct {
	Name        string
	Species     models.Species
	Breed       string
	AgeText     string
	Description string
	City        string
}

// Create stores a new listing. Owner and publication flag are always forced
// server side, whatever the client sent.
func (s *PetService) Create(ctx context.Context, callerID string, input PetInput) (models.Pet, error) {
	if !input.Species.Valid() {
		return models.Pet{}, ErrInvalidSpecies
	}

	pet := models.Pet{
		ID:          ids.New(),
		Name:        input.Name,
		Species:     input.Species,
		Breed:       input.Breed,
		AgeText:     input.AgeText,
		Description: input.Description,
		City:        input.City,
		CreatedBy:   callerID,
		IsPublished: true,
	}

	if err := s.pets.Create(ctx, pet); err != nil {
		return models.Pet{}, err
	}
	return pet, nil
}

// List returns all pets for authenticated callers and published pets only
// for anonymous ones.
func (s *PetService) List(ctx context.Context, authenticated bool) ([]models.Pet, error) {
	return s.pets.List(ctx, !authenticated)
}

func (s *PetService) Get(ctx context.Context, authenticated bool, id string) (models.Pet, error) {
	pet, err := s.pets.GetByID(ctx, id)
	if err != nil {
		return models.Pet{}, err
	}
	if !authenticated && !pet.IsPublished {
		// Unpublished listings do not exist for anonymous callers.
		return models.Pet{}, repository.ErrPetNotFound
	}
	return pet, nil
}

func (s *PetService) Update(ctx context.Context, callerID string, id string, input PetInput) (models.Pet, error) {
	if !input.Species.Valid() {
		return models.Pet{}, ErrInvalidSpecies
	}

	pet, err := s.pets.GetByID(ctx, id)
	if err != nil {
		return models.Pet{}, err
	}
	if pet.CreatedBy != callerID {
		return models.Pet{}, ErrNotOwner
	}

	pet.Name = input.Name
	pet.Species = input.Species
	pet.Breed = input.Breed
	pet.AgeText = input.AgeText
	pet.Description = input.Description
	pet.City = input.City

	if err := s.pets.Update(ctx, pet); err != nil {
		return models.Pet{}, err
	}
	return pet, nil
}

func (s *PetService) Delete(ctx context.Context, callerID string, id string) error {
	pet, err := s.pets.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if pet.CreatedBy != callerID {
		return ErrNotOwner
	}
	return s.pets.Delete(ctx, id)
}

// AttachPhoto sniffs the upload, stores it in the object store and records
// the public URL on the pet. Owner only.
func (s *PetService) AttachPhoto(ctx context.Context, callerID string, petID string, file io.Reader, size int64) (string, error) {
	pet, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return "", err
	}
	if pet.CreatedBy != callerID {
		return "", ErrNotOwner
	}
	if size <= 0 || size > maxPhotoBytes {
		return "", ErrPhotoTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	format, err := sniffer.Detect(data)
	if err != nil {
		return "", err
	}

	objectKey := path.Join(time.Now().UTC().Format("2006/01/02"), fmt.Sprintf("%s.%s", petID, format))
	url, err := s.photos.PutPetPhoto(ctx, objectKey, bytes.NewReader(data), int64(len(data)), format.MIME())
	if err != nil {
		return "", err
	}

	if err := s.pets.UpdateImageURL(ctx, petID, url); err != nil {
		return "", err
	}
	return url, nil
}

// Stats serves the landing-page counters, cached briefly in Redis so the
// public endpoint does not hammer the store.
func (s *PetService) Stats(ctx context.Context) (models.Stats, error) {
	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, statsCacheKey).Bytes(); err == nil {
			var stats models.Stats
			if err := json.Unmarshal(raw, &stats); err == nil {
				return stats, nil
			}
		}
	}

	stats, err := s.computeStats(ctx)
	if err != nil {
		return models.Stats{}, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(stats); err == nil {
			if err := s.cache.Set(ctx, statsCacheKey, raw, statsCacheTTL).Err(); err != nil {
				s.log.Warn().Err(err).Msg("stats cache set failed")
			}
		}
	}
	return stats, nil
}

// WarmStatsCache recomputes the counters and refreshes the cache entry. The
// cron job calls this so most /api/stats hits are served from Redis.
func (s *PetService) WarmStatsCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	stats, err := s.computeStats(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, statsCacheKey, raw, statsCacheTTL).Err()
}

func (s *PetService) computeStats(ctx context.Context) (models.Stats, error) {
	published, err := s.pets.CountPublished(ctx)
	if err != nil {
		return models.Stats{}, err
	}
	users, err := s.users.CountAll(ctx)
	if err != nil {
		return models.Stats{}, err
	}
	cities, err := s.pets.CountDistinctCities(ctx)
	if err != nil {
		return models.Stats{}, err
	}
	return models.Stats{
		PublishedPets:  published,
		TotalUsers:     users,
		DistinctCities: cities,
	}, nil
}
