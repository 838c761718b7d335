package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"adotapet/api/internal/middleware"
	"adotapet/api/internal/models"
)

type roomResponse struct {
	ID        string    `json:"id"`
	PetID     *string   `json:"pet_id"`
	User1ID   string    `json:"user1"`
	User2ID   string    `json:"user2"`
	CreatedAt time.Time `json:"created_at"`
}

func toRoomResponse(room models.ChatRoom) roomResponse {
	return roomResponse{
		ID:        room.ID,
		PetID:     room.PetID,
		User1ID:   room.User1ID,
		User2ID:   room.User2ID,
		CreatedAt: room.CreatedAt,
	}
}

type messageResponse struct {
	ID      string    `json:"id"`
	RoomID  string    `json:"room_id"`
	Sender  string    `json:"sender"`
	Content string    `json:"content"`
	SentAt  time.Time `json:"timestamp"`
}

func toMessageResponse(msg models.Message) messageResponse {
	return messageResponse{
		ID:      msg.ID,
		RoomID:  msg.RoomID,
		Sender:  msg.SenderID,
		Content: msg.Content,
		SentAt:  msg.SentAt,
	}
}

func (h HandlerSet) ListRooms(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	rooms, err := h.chatService.ListRooms(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	items := make([]roomResponse, 0, len(rooms))
	for _, room := range rooms {
		items = append(items, toRoomResponse(room))
	}
	c.JSON(http.StatusOK, items)
}

type openRoomRequest struct {
	PetID      string `json:"pet_id"`
	ReceiverID string `json:"receiver_id"`
}

// OpenRoom finds or creates the room between the caller and another user
// about a pet. 201 when the room was just created, 200 when it already
// existed.
func (h HandlerSet) OpenRoom(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req openRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PetID == "" || req.ReceiverID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "pet_id and receiver_id are required"})
		return
	}

	result, err := h.chatService.OpenRoom(c.Request.Context(), userID, req.ReceiverID, &req.PetID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, toRoomResponse(result.Room))
}

func (h HandlerSet) OpenRoomByPet(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	result, err := h.chatService.OpenRoomByPet(c.Request.Context(), userID, c.Param("petId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRoomResponse(result.Room))
}

func (h HandlerSet) ListMessages(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	messages, err := h.chatService.ListMessages(c.Request.Context(), userID, c.Param("roomId"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	items := make([]messageResponse, 0, len(messages))
	for _, msg := range messages {
		items = append(items, toMessageResponse(msg))
	}
	c.JSON(http.StatusOK, items)
}

type postMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h HandlerSet) PostMessage(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "content is required"})
		return
	}

	msg, err := h.chatService.PostMessage(c.Request.Context(), userID, c.Param("roomId"), req.Content)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toMessageResponse(msg))
}
