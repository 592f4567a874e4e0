package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"secretlocale/pkg/planner"
	"secretlocale/pkg/storage"
)

// Planner serves the adventure-planner itinerary endpoint. Generated
// itineraries are cached in SQLite keyed by the normalized prompt.
type Planner struct {
	Store     *storage.Store
	Generator planner.Generator
}

type plannerMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type itineraryRequest struct {
	Message  string           `json:"message"`
	Messages []plannerMessage `json:"messages"`
	UserID   string           `json:"userId"`
}

// Itinerary handles POST /api/itinerary. Accepts either a direct message or
// a chat messages array, serving cached results when the prompt was seen
// before.
func (h *Planner) Itinerary(c *gin.Context) {
	var req itineraryRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	message := req.Message
	if len(req.Messages) > 0 {
		message = req.Messages[len(req.Messages)-1].Content
	}
	if message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing message"})
		return
	}

	prompt := planner.NormalizePrompt(message)

	if cached, err := h.Store.FindByPrompt(prompt); err != nil {
		slog.Warn("itinerary cache lookup failed", "error", err)
	} else if cached != nil {
		c.Data(http.StatusOK, "application/json", []byte(cached.Data))
		return
	}

	result, err := h.Generator.Generate(c.Request.Context(), prompt)
	if err != nil {
		slog.Error("itinerary generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate itinerary"})
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate itinerary"})
		return
	}

	destination := result.Itinerary.Destination
	if destination == "" {
		destination = "Unknown"
	}
	duration := result.Itinerary.Duration
	if duration == 0 {
		duration = 1
	}

	if err := h.Store.Save(&storage.Itinerary{
		UserID:      req.UserID,
		Destination: destination,
		Duration:    duration,
		Prompt:      prompt,
		Data:        string(data),
	}); err != nil {
		slog.Warn("itinerary cache write failed", "error", err)
	}

	c.Data(http.StatusOK, "application/json", data)
}
