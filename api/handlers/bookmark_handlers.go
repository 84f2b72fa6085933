package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"linkhive/api/dto"
	"linkhive/eventbus"
	"linkhive/events"
	"linkhive/logger"
	"linkhive/models"
	"linkhive/repositories"
)

// CreateBookmarkHandler godoc
// @Summary      Save a bookmark
// @Description  Saves a URL for the given user and queues it for AI analysis.
// @Tags         bookmarks
// @Accept       json
// @Produce      json
// @Param        bookmark  body  dto.CreateBookmarkRequest  true  "Bookmark to save"
// @Success      201  {object}  dto.BookmarkDTO
// @Success      200  {object}  dto.BookmarkDTO  "Already saved"
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /bookmarks [post]
func CreateBookmarkHandler(bookmarks *repositories.BookmarkRepository, bus eventbus.EventBus) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.CreateBookmarkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_request_body"})
			return
		}

		bm := &models.Bookmark{
			UserID:             req.UserID,
			URL:                req.URL,
			Title:              req.Title,
			AIProcessingStatus: models.AIStatusPending,
		}
		inserted, err := bookmarks.UpsertByUserAndURL(c.Request.Context(), bm)
		if err != nil {
			logger.Log.Errorf("failed to save bookmark %s: %v", req.URL, err)
			c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: "failed_to_save_bookmark"})
			return
		}

		saved, err := bookmarks.FindByUserAndURL(c.Request.Context(), req.UserID, req.URL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: "failed_to_load_bookmark"})
			return
		}

		if !inserted {
			c.JSON(http.StatusOK, dto.FromBookmark(saved))
			return
		}

		publishBookmarkCreated(c, bus, saved)
		c.JSON(http.StatusCreated, dto.FromBookmark(saved))
	}
}

func publishBookmarkCreated(c *gin.Context, bus eventbus.EventBus, bm *models.Bookmark) {
	if bus == nil {
		return
	}
	payload := events.BookmarkCreatedEvent{
		BaseEvent: events.BaseEvent{
			Type:      events.BookmarkCreated,
			Timestamp: time.Now(),
			Source:    "api",
			Version:   "1.0",
		},
		BookmarkID: bm.ID,
		UserID:     bm.UserID,
		URL:        bm.URL,
		Title:      bm.Title,
	}
	evt, err := eventbus.NewJSONEvent("", payload, 0)
	if err != nil {
		logger.Log.Errorf("failed to build bookmark created event: %v", err)
		return
	}
	if err := bus.Publish(c.Request.Context(), eventbus.TopicBookmarkEvents.Base(), evt); err != nil {
		// the scheduler will still pick the bookmark up on its next tick
		logger.Log.Errorf("failed to publish bookmark created event: %v", err)
	}
}

// GetBookmarkHandler godoc
// @Summary      Get one bookmark
// @Tags         bookmarks
// @Produce      json
// @Param        id  path  string  true  "Bookmark ObjectID"
// @Success      200  {object}  dto.BookmarkDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /bookmarks/{id} [get]
func GetBookmarkHandler(bookmarks *repositories.BookmarkRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_bookmark_id"})
			return
		}

		bm, err := bookmarks.FindByID(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusNotFound, dto.ErrorResponseDTO{Error: "bookmark_not_found"})
			return
		}
		c.JSON(http.StatusOK, dto.FromBookmark(bm))
	}
}

// ListBookmarksByStatusHandler godoc
// @Summary      List bookmarks by processing status
// @Tags         bookmarks
// @Produce      json
// @Param        status   query  string  true   "pending | processing | completed | failed"
// @Param        user_id  query  string  false  "Filter by user"
// @Param        limit    query  int     false  "Max rows, default 50"
// @Success      200  {array}   dto.BookmarkDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /bookmarks [get]
func ListBookmarksByStatusHandler(bookmarks *repositories.BookmarkRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := models.AIStatus(c.Query("status"))
		switch status {
		case models.AIStatusPending, models.AIStatusProcessing, models.AIStatusCompleted, models.AIStatusFailed:
		default:
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_status"})
			return
		}

		limit := 50
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 || n > 500 {
				c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "invalid_limit"})
				return
			}
			limit = n
		}

		rows, err := bookmarks.GetByStatus(c.Request.Context(), status, limit, c.Query("user_id"))
		if err != nil {
			logger.Log.Errorf("failed to list bookmarks: %v", err)
			c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: "failed_to_list_bookmarks"})
			return
		}

		out := make([]dto.BookmarkDTO, 0, len(rows))
		for i := range rows {
			out = append(out, dto.FromBookmark(&rows[i]))
		}
		c.JSON(http.StatusOK, out)
	}
}

// ReprocessFailedHandler godoc
// @Summary      Re-queue failed bookmarks
// @Description  Asks the worker to flip failed bookmarks back to pending and analyze them again.
// @Tags         bookmarks
// @Produce      json
// @Param        user_id  query  string  false  "Only this user's bookmarks"
// @Success      202  {object}  dto.MessageResponseDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /bookmarks/reprocess [post]
func ReprocessFailedHandler(bus eventbus.EventBus) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload := events.ReprocessRequestedEvent{
			BaseEvent: events.BaseEvent{
				Type:      events.ReprocessRequested,
				Timestamp: time.Now(),
				Source:    "api",
				Version:   "1.0",
			},
			UserID:      c.Query("user_id"),
			RequestedBy: "api",
		}
		evt, err := eventbus.NewJSONEvent("", payload, 0)
		if err != nil {
			c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: "failed_to_build_event"})
			return
		}
		if err := bus.Publish(c.Request.Context(), eventbus.TopicBookmarkEvents.Base(), evt); err != nil {
			logger.Log.Errorf("failed to publish reprocess event: %v", err)
			c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: "failed_to_publish_event"})
			return
		}
		c.JSON(http.StatusAccepted, dto.MessageResponseDTO{Message: "reprocess_requested"})
	}
}
