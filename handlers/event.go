package handlers

import (
	"log"
	"net/http"
	"time"

	"mezgeb/db"
	"mezgeb/models"
	"mezgeb/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type EventCreateRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Slug        string `json:"slug" binding:"required"`
	Description string `json:"description" binding:"omitempty,max=1000"`
	AccentColor string `json:"accent_color" binding:"omitempty,hexcolor"`
	Date        string `json:"date" binding:"omitempty"` // RFC3339
}

func EventCreate(c *gin.Context, user *models.User) {
	r := EventCreateRequest{}
	if err := c.ShouldBindWith(&r, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if !utils.IsValidSlug(r.Slug) {
		c.JSON(http.StatusBadRequest, Response{"invalid slug"})
		return
	}
	var date *int64
	if r.Date != "" {
		t, err := time.Parse(time.RFC3339, r.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, Response{"invalid date"})
			return
		}
		unix := t.Unix()
		date = &unix
	}
	if _, err := models.EventBySlug(r.Slug); err == nil {
		c.JSON(http.StatusConflict, Response{"Slug already in use"})
		return
	}
	event := models.Event{
		OwnerID:     user.ID,
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		AccentColor: r.AccentColor,
		Date:        date,
	}
	if err := db.Instance.Create(&event).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	// Best-effort: the event is created either way, folder ids stay null and
	// are re-resolved on the first upload.
	if _, err := ProvisionEventFolders(c, &event); err != nil {
		log.Printf("Drive provisioning failed for event %d: %v", event.ID, err)
	}
	c.JSON(http.StatusOK, gin.H{"event": event})
}

func EventList(c *gin.Context, user *models.User) {
	events := []models.Event{}
	err := db.Instance.
		Where("owner_id = ?", user.ID).
		Order("created_at DESC").
		Find(&events).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func EventGet(c *gin.Context, user *models.User) {
	event, err := models.EventBySlug(c.Query("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return
	}
	if event.OwnerID != user.ID {
		c.JSON(http.StatusForbidden, ForbiddenResponse)
		return
	}
	c.JSON(http.StatusOK, gin.H{"event": event})
}
