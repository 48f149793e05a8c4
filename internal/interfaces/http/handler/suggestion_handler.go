package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"meal_storefront/internal/domain/suggestion"
)

type Suggestions interface {
	ForUser(ctx context.Context, userID string, limit int) ([]suggestion.Suggestion, error)
	AlongWith(ctx context.Context, productID string, limit int) ([]suggestion.Suggestion, error)
}

// SuggestionHandler serves reorder suggestions. With no purchase graph
// configured it answers with an empty list.
type SuggestionHandler struct {
	suggestions Suggestions
}

func NewSuggestionHandler(svc Suggestions) *SuggestionHandler {
	return &SuggestionHandler{suggestions: svc}
}

func (h *SuggestionHandler) ForUser(c *gin.Context) {
	userID, ok := requireHeader(c, headerUserID)
	if !ok {
		return
	}
	if h.suggestions == nil {
		c.JSON(http.StatusOK, gin.H{"suggestions": []suggestion.Suggestion{}})
		return
	}
	out, err := h.suggestions.ForUser(c.Request.Context(), userID, queryInt(c, "limit", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": out})
}

func (h *SuggestionHandler) AlongWith(c *gin.Context) {
	if h.suggestions == nil {
		c.JSON(http.StatusOK, gin.H{"suggestions": []suggestion.Suggestion{}})
		return
	}
	out, err := h.suggestions.AlongWith(c.Request.Context(), c.Param("id"), queryInt(c, "limit", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": out})
}
