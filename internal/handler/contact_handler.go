package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gravyapp/gravy/internal/domain"
	"github.com/gravyapp/gravy/internal/dto"
	"github.com/gravyapp/gravy/internal/repository"
)

const contactListLimit = 100

// ContactHandler handles the public contact form and its admin listing
type ContactHandler struct {
	messages repository.ContactMessageRepository
}

// NewContactHandler creates a new contact handler
func NewContactHandler(messages repository.ContactMessageRepository) *ContactHandler {
	return &ContactHandler{messages: messages}
}

// Create stores a contact form submission
func (h *ContactHandler) Create(c *gin.Context) {
	var req dto.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	msg := &domain.ContactMessage{
		Name:  req.Name,
		Email: req.Email,
		Body:  req.Body,
	}

	if err := h.messages.Create(c.Request.Context(), msg); err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "Internal server error",
			Message: "Could not save message",
		})
		return
	}

	c.JSON(http.StatusCreated, dto.SuccessResponse{
		Message: "Message received",
	})
}

// List returns recent contact messages; requires an authenticated session
func (h *ContactHandler) List(c *gin.Context) {
	messages, err := h.messages.List(c.Request.Context(), contactListLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "Internal server error",
			Message: "Could not list messages",
		})
		return
	}

	c.JSON(http.StatusOK, messages)
}
