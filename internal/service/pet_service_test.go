package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"adotapet/api/internal/media/sniffer"
	"adotapet/api/internal/models"
	"adotapet/api/internal/repository"
)

func newPetFixture(t *testing.T) (*PetService, *fakePetStore, *fakeUserStore, *fakePhotoStore) {
	t.Helper()
	pets := newFakePetStore()
	users := newFakeUserStore()
	photos := newFakePhotoStore()
	svc := NewPetService(pets, users, photos, nil, zerolog.Nop())
	return svc, pets, users, photos
}

func TestCreatePetForcesOwnerAndPublished(t *testing.T) {
	svc, _, _, _ := newPetFixture(t)

	pet, err := svc.Create(context.Background(), "owner-1", PetInput{
		Name:    "Rex",
		Species: models.SpeciesDog,
		City:    "Campinas",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if pet.CreatedBy != "owner-1" {
		t.Fatalf("owner not forced to caller: %q", pet.CreatedBy)
	}
	if !pet.IsPublished {
		t.Fatal("new listing must be published")
	}
	if pet.ID == "" {
		t.Fatal("missing id")
	}
}

func TestCreatePetInvalidSpecies(t *testing.T) {
	svc, _, _, _ := newPetFixture(t)
	if _, err := svc.Create(context.Background(), "owner-1", PetInput{Name: "Rex", Species: "hamster"}); !errors.Is(err, ErrInvalidSpecies) {
		t.Fatalf("expected ErrInvalidSpecies, got %v", err)
	}
}

func TestListFiltersUnpublishedForAnonymous(t *testing.T) {
	svc, pets, _, _ := newPetFixture(t)
	ctx := context.Background()

	pets.pets["p1"] = models.Pet{ID: "p1", Name: "Rex", Species: models.SpeciesDog, IsPublished: true}
	pets.pets["p2"] = models.Pet{ID: "p2", Name: "Mimi", Species: models.SpeciesCat, IsPublished: false}

	anon, err := svc.List(ctx, false)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(anon) != 1 || anon[0].ID != "p1" {
		t.Fatalf("anonymous list should hold only published pets, got %+v", anon)
	}

	authed, err := svc.List(ctx, true)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(authed) != 2 {
		t.Fatalf("authenticated list should hold all pets, got %d", len(authed))
	}
}

func TestGetUnpublishedHiddenFromAnonymous(t *testing.T) {
	svc, pets, _, _ := newPetFixture(t)
	ctx := context.Background()

	pets.pets["p2"] = models.Pet{ID: "p2", Name: "Mimi", Species: models.SpeciesCat, IsPublished: false}

	if _, err := svc.Get(ctx, false, "p2"); !errors.Is(err, repository.ErrPetNotFound) {
		t.Fatalf("expected not-found for anonymous caller, got %v", err)
	}
	if _, err := svc.Get(ctx, true, "p2"); err != nil {
		t.Fatalf("authenticated Get failed: %v", err)
	}
}

func TestUpdatePetOwnerOnly(t *testing.T) {
	svc, pets, _, _ := newPetFixture(t)
	ctx := context.Background()

	pets.pets["p1"] = models.Pet{ID: "p1", Name: "Rex", Species: models.SpeciesDog, CreatedBy: "owner-1", IsPublished: true}

	input := PetInput{Name: "Rex II", Species: models.SpeciesDog, City: "Santos"}
	if _, err := svc.Update(ctx, "intruder", "p1", input); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if pets.pets["p1"].Name != "Rex" {
		t.Fatal("record changed by a rejected update")
	}

	updated, err := svc.Update(ctx, "owner-1", "p1", input)
	if err != nil {
		t.Fatalf("owner Update failed: %v", err)
	}
	if updated.Name != "Rex II" || updated.City != "Santos" {
		t.Fatalf("update not applied: %+v", updated)
	}
}

func TestDeletePetOwnerOnly(t *testing.T) {
	svc, pets, _, _ := newPetFixture(t)
	ctx := context.Background()

	pets.pets["p1"] = models.Pet{ID: "p1", Name: "Rex", Species: models.SpeciesDog, CreatedBy: "owner-1"}

	if err := svc.Delete(ctx, "intruder", "p1"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if _, ok := pets.pets["p1"]; !ok {
		t.Fatal("record deleted by a rejected delete")
	}

	if err := svc.Delete(ctx, "owner-1", "p1"); err != nil {
		t.Fatalf("owner Delete failed: %v", err)
	}
	if _, ok := pets.pets["p1"]; ok {
		t.Fatal("record survived delete")
	}
}

// Minimal PNG header, enough for format sniffing.
var pngHead = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

func TestAttachPhoto(t *testing.T) {
	svc, pets, _, photos := newPetFixture(t)
	ctx := context.Background()

	pets.pets["p1"] = models.Pet{ID: "p1", Name: "Rex", Species: models.SpeciesDog, CreatedBy: "owner-1"}

	url, err := svc.AttachPhoto(ctx, "owner-1", "p1", bytes.NewReader(pngHead), int64(len(pngHead)))
	if err != nil {
		t.Fatalf("AttachPhoto failed: %v", err)
	}
	if url == "" {
		t.Fatal("empty photo URL")
	}
	if got := pets.pets["p1"].ImageURL; got == nil || *got != url {
		t.Fatalf("image URL not recorded on the pet: %v", got)
	}

	if len(photos.puts) != 1 {
		t.Fatalf("expected one stored object, got %d", len(photos.puts))
	}
	for key, contentType := range photos.puts {
		if !strings.HasSuffix(key, "p1.png") {
			t.Fatalf("unexpected object key %q", key)
		}
		if contentType != "image/png" {
			t.Fatalf("unexpected content type %q", contentType)
		}
	}
}

func TestAttachPhotoRejections(t *testing.T) {
	svc, pets, _, _ := newPetFixture(t)
	ctx := context.Background()

	pets.pets["p1"] = models.Pet{ID: "p1", Name: "Rex", Species: models.SpeciesDog, CreatedBy: "owner-1"}

	if _, err := svc.AttachPhoto(ctx, "intruder", "p1", bytes.NewReader(pngHead), int64(len(pngHead))); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	if _, err := svc.AttachPhoto(ctx, "owner-1", "p1", bytes.NewReader(nil), maxPhotoBytes+1); !errors.Is(err, ErrPhotoTooLarge) {
		t.Fatalf("expected ErrPhotoTooLarge, got %v", err)
	}

	exe := []byte{0x4D, 0x5A, 0x90, 0x00, 0x03, 0x00, 0x00, 0x00}
	if _, err := svc.AttachPhoto(ctx, "owner-1", "p1", bytes.NewReader(exe), int64(len(exe))); !errors.Is(err, sniffer.ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestStatsCounts(t *testing.T) {
	svc, pets, users, _ := newPetFixture(t)
	ctx := context.Background()

	users.put(models.User{ID: "u1", Email: "a@example.com", Username: "a"})
	users.put(models.User{ID: "u2", Email: "b@example.com", Username: "b"})

	pets.pets["p1"] = models.Pet{ID: "p1", Species: models.SpeciesDog, City: "Campinas", IsPublished: true}
	pets.pets["p2"] = models.Pet{ID: "p2", Species: models.SpeciesCat, City: "Santos", IsPublished: true}
	pets.pets["p3"] = models.Pet{ID: "p3", Species: models.SpeciesCat, City: "Campinas", IsPublished: false}

	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.PublishedPets != 2 {
		t.Fatalf("published pets: got %d, want 2", stats.PublishedPets)
	}
	if stats.TotalUsers != 2 {
		t.Fatalf("total users: got %d, want 2", stats.TotalUsers)
	}
	if stats.DistinctCities != 2 {
		t.Fatalf("distinct cities: got %d, want 2", stats.DistinctCities)
	}
}
