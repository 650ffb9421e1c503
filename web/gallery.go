package web

import (
	"net/http"

	"mezgeb/db"
	"mezgeb/handlers"
	"mezgeb/models"

	"github.com/gin-gonic/gin"
)

// GalleryView is the public JSON view behind the shared event link: event
// header info, albums, and all approved media.
func GalleryView(c *gin.Context) {
	event, err := models.EventBySlug(c.Param("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, handlers.Response{Error: "Event not found"})
		return
	}
	albums := []models.Album{}
	if err := db.Instance.Where("event_id = ?", event.ID).Order("created_at ASC").Find(&albums).Error; err != nil {
		c.JSON(http.StatusInternalServerError, handlers.DBError1Response)
		return
	}
	media := []models.Media{}
	err = db.Instance.
		Where("event_id = ? and status = ?", event.ID, models.MediaStatusApproved).
		Order("created_at DESC").
		Find(&media).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, handlers.DBError2Response)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"event": gin.H{
			"name":        event.Name,
			"slug":        event.Slug,
			"description": event.Description,
			"accentColor": event.AccentColor,
			"date":        event.Date,
		},
		"albums": albums,
		"media":  media,
	})
}
