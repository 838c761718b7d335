package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"adotapet/api/internal/config"
	"adotapet/api/internal/media/sniffer"
	"adotapet/api/internal/middleware"
	"adotapet/api/internal/repository"
	"adotapet/api/internal/security"
	"adotapet/api/internal/service"
	"adotapet/api/internal/storage"
)

type HandlerSet struct {
	log         zerolog.Logger
	cfg         *config.AppConfig
	authService *service.AuthService
	petService  *service.PetService
	chatService *service.ChatService
	db          *pgxpool.Pool
	cache       *redis.Client
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, store *storage.ObjectStore, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	petRepo := repository.NewPetRepository(db)
	chatRepo := repository.NewChatRepository(db)

	policy := security.DefaultPasswordPolicy{MinLength: cfg.Security.PasswordMinLength}
	auth := service.NewAuthService(userRepo, policy, cfg, log)
	pets := service.NewPetService(petRepo, userRepo, store, cache, log)
	chat := service.NewChatService(chatRepo, userRepo, petRepo, log)

	return HandlerSet{
		log:         log,
		cfg:         cfg,
		authService: auth,
		petService:  pets,
		chatService: chat,
		db:          db,
		cache:       cache,
	}
}

// Pets exposes the pet service for the background scheduler.
func (h HandlerSet) Pets() *service.PetService {
	return h.petService
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	router.Use(middleware.Authenticate(h.cfg.Security.JWTSecret))

	accounts := router.Group("/accounts")
	{
		accounts.POST("/register", h.RegisterAccount)
		accounts.POST("/login", h.Login)
		accounts.POST("/logout", middleware.RequireUser(), h.Logout)
		accounts.GET("/user", middleware.RequireUser(), h.CurrentUser)
	}

	token := router.Group("/token")
	{
		token.POST("", h.Login) // alias kept for older clients
		token.POST("/refresh", h.Refresh)
	}

	pets := router.Group("/pets")
	{
		pets.GET("", h.ListPets)
		pets.GET("/:id", h.GetPet)
		pets.POST("", middleware.RequireUser(), h.CreatePet)
		pets.PUT("/:id", middleware.RequireUser(), h.UpdatePet)
		pets.DELETE("/:id", middleware.RequireUser(), h.DeletePet)
		pets.POST("/:id/image", middleware.RequireUser(), h.UploadPetPhoto)
	}

	router.GET("/stats", h.Stats)

	chat := router.Group("/chat", middleware.RequireUser())
	{
		chat.GET("/rooms", h.ListRooms)
		chat.POST("/rooms", h.OpenRoom)
		chat.POST("/rooms/by_pet/:petId", h.OpenRoomByPet)
		chat.GET("/rooms/:roomId/messages", h.ListMessages)
		chat.POST("/rooms/:roomId/messages", h.PostMessage)
	}
}

// respondError maps service sentinels onto the HTTP error taxonomy. Store
// internals are never echoed to the client.
func (h HandlerSet) respondError(c *gin.Context, err error) {
	var weak *service.WeakPasswordError
	if errors.As(err, &weak) {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "password does not meet the complexity policy",
			"fields": gin.H{"password": weak.Reasons},
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrPasswordMismatch),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrInvalidSpecies),
		errors.Is(err, service.ErrMissingToken),
		errors.Is(err, service.ErrSelfChat),
		errors.Is(err, service.ErrPhotoTooLarge),
		errors.Is(err, sniffer.ErrUnknownFormat),
		errors.Is(err, repository.ErrUserExists):
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrAccountInactive),
		errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": err.Error()})
	case errors.Is(err, service.ErrNotOwner),
		errors.Is(err, service.ErrNotParticipant):
		c.JSON(http.StatusForbidden, gin.H{"detail": err.Error()})
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrPetNotFound),
		errors.Is(err, repository.ErrRoomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
	default:
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
	}
}
