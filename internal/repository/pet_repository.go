package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"adotapet/api/internal/models"
)

var ErrPetNotFound = errors.New("pet not found")

type PetRepository struct {
	pool *pgxpool.Pool
}

func NewPetRepository(pool *pgxpool.Pool) *PetRepository {
	return &PetRepository{pool: pool}
}

const petColumns = `
	id, name, species, breed, age_text, description, city, image_url,
	created_by, is_published, created_at, updated_at
`

func (r *PetRepository) Create(ctx context.Context, pet models.Pet) error {
	const query = `
		INSERT INTO pets (
			id, name, species, breed, age_text, description, city, image_url,
			created_by, is_published, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		pet.ID,
		pet.Name,
		pet.Species,
		pet.Breed,
		pet.AgeText,
		pet.Description,
		pet.City,
		pet.ImageURL,
		pet.CreatedBy,
		pet.IsPublished,
	)
	return err
}

func (r *PetRepository) GetByID(ctx context.Context, id string) (models.Pet, error) {
	const query = `SELECT ` + petColumns + ` FROM pets WHERE id = $1`
	return scanPet(r.pool.QueryRow(ctx, query, id))
}

// List returns pets newest first. When publishedOnly is set, unpublished
// listings are hidden (the anonymous view).
func (r *PetRepository) List(ctx context.Context, publishedOnly bool) ([]models.Pet, error) {
	query := `SELECT ` + petColumns + ` FROM pets`
	if publishedOnly {
		query += ` WHERE is_published = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pets []models.Pet
	for rows.Next() {
		pet, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		pets = append(pets, pet)
	}
	return pets, rows.Err()
}

func (r *PetRepository) Update(ctx context.Context, pet models.Pet) error {
	const query = `
		UPDATE pets
		SET name = $2, species = $3, breed = $4, age_text = $5,
		    description = $6, city = $7, is_published = $8, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		pet.ID,
		pet.Name,
		pet.Species,
		pet.Breed,
		pet.AgeText,
		pet.Description,
		pet.City,
		pet.IsPublished,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPetNotFound
	}
	return nil
}

func (r *PetRepository) UpdateImageURL(ctx context.Context, id string, imageURL string) error {
	const query = `UPDATE pets SET image_url = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, imageURL)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPetNotFound
	}
	return nil
}

func (r *PetRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM pets WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPetNotFound
	}
	return nil
}

func (r *PetRepository) CountPublished(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM pets WHERE is_published = TRUE`
	var count int64
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PetRepository) CountDistinctCities(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(DISTINCT city) FROM pets`
	var count int64
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanPet(row pgx.Row) (models.Pet, error) {
	var pet models.Pet
	if err := row.Scan(
		&pet.ID,
		&pet.Name,
		&pet.Species,
		&pet.Breed,
		&pet.AgeText,
		&pet.Description,
		&pet.City,
		&pet.ImageURL,
		&pet.CreatedBy,
		&pet.IsPublished,
		&pet.CreatedAt,
		&pet.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Pet{}, ErrPetNotFound
		}
		return models.Pet{}, err
	}
	return pet, nil
}
