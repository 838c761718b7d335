package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"adotapet/api/internal/middleware"
	"adotapet/api/internal/models"
	"adotapet/api/internal/service"
)

type petRequest struct {
	Name        string `json:"name" binding:"required"`
	Species     string `json:"species" binding:"required"`
	Breed       string `json:"breed"`
	AgeText     string `json:"age_text"`
	Description string `json:"description"`
	City        string `json:"city"`
}

type petResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Species     string    `json:"species"`
	Breed       string    `json:"breed"`
	AgeText     string    `json:"age_text"`
	Description string    `json:"description"`
	City        string    `json:"city"`
	ImageURL    *string   `json:"image_url"`
	CreatedBy   string    `json:"created_by"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toPetResponse(pet models.Pet) petResponse {
	return petResponse{
		ID:          pet.ID,
		Name:        pet.Name,
		Species:     string(pet.Species),
		Breed:       pet.Breed,
		AgeText:     pet.AgeText,
		Description: pet.Description,
		City:        pet.City,
		ImageURL:    pet.ImageURL,
		CreatedBy:   pet.CreatedBy,
		IsPublished: pet.IsPublished,
		CreatedAt:   pet.CreatedAt,
		UpdatedAt:   pet.UpdatedAt,
	}
}

func (h HandlerSet) ListPets(c *gin.Context) {
	_, authenticated := middleware.CurrentUserID(c)

	pets, err := h.petService.List(c.Request.Context(), authenticated)
	if err != nil {
		h.respondError(c, err)
		return
	}

	items := make([]petResponse, 0, len(pets))
	for _, pet := range pets {
		items = append(items, toPetResponse(pet))
	}
	c.JSON(http.StatusOK, items)
}

func (h HandlerSet) GetPet(c *gin.Context) {
	_, authenticated := middleware.CurrentUserID(c)

	pet, err := h.petService.Get(c.Request.Context(), authenticated, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPetResponse(pet))
}

func (h HandlerSet) CreatePet(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req petRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	pet, err := h.petService.Create(c.Request.Context(), userID, service.PetInput{
		Name:        req.Name,
		Species:     models.Species(req.Species),
		Breed:       req.Breed,
		AgeText:     req.AgeText,
		Description: req.Description,
		City:        req.City,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toPetResponse(pet))
}

func (h HandlerSet) UpdatePet(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req petRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	pet, err := h.petService.Update(c.Request.Context(), userID, c.Param("id"), service.PetInput{
		Name:        req.Name,
		Species:     models.Species(req.Species),
		Breed:       req.Breed,
		AgeText:     req.AgeText,
		Description: req.Description,
		City:        req.City,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPetResponse(pet))
}

func (h HandlerSet) DeletePet(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	if err := h.petService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h HandlerSet) UploadPetPhoto(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "image file required"})
		return
	}
	defer file.Close()

	url, err := h.petService.AttachPhoto(c.Request.Context(), userID, c.Param("id"), file, header.Size)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"image_url": url})
}

// Stats keeps the original field names the landing page consumes.
func (h HandlerSet) Stats(c *gin.Context) {
	stats, err := h.petService.Stats(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"petsAdotados":     stats.PublishedPets,
		"usuariosAtivos":   stats.TotalUsers,
		"cidadesAtendidas": stats.DistinctCities,
	})
}
