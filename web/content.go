package web

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"mezgeb/db"
	"mezgeb/drive"
	"mezgeb/models"

	"github.com/gin-gonic/gin"
)

// MediaContent proxies file bytes from Drive back to the client, passing
// byte-range semantics through in both directions.
func MediaContent(c *gin.Context) {
	idParam := c.Query("id")
	if idParam == "" {
		c.String(http.StatusBadRequest, "Missing id")
		return
	}
	id, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "Missing id")
		return
	}
	media := models.Media{}
	if err := db.Instance.First(&media, id).Error; err != nil {
		c.String(http.StatusNotFound, "Not found")
		return
	}
	event := models.Event{}
	if err := db.Instance.First(&event, media.EventID).Error; err != nil {
		c.String(http.StatusNotFound, "Event missing")
		return
	}
	client, err := drive.ClientFor(c, event.OwnerID)
	if err != nil {
		if errors.Is(err, drive.ErrNotConnected) {
			c.String(http.StatusBadRequest, "Owner not connected to Google")
			return
		}
		c.String(http.StatusInternalServerError, "Failed")
		return
	}
	resp, err := client.Download(c, media.DriveFileID, c.GetHeader("Range"))
	if err != nil {
		log.Printf("content stream failed for media %d: %v", media.ID, err)
		c.String(http.StatusInternalServerError, "Failed")
		return
	}
	defer resp.Body.Close()

	contentType := media.MimeType
	if contentType == "" {
		contentType = resp.Header.Get("Content-Type")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Header("Accept-Ranges", "bytes")
	c.Header("Cache-Control", "private, max-age=3600")
	if v := resp.Header.Get("Content-Length"); v != "" {
		c.Header("Content-Length", v)
	}
	if v := resp.Header.Get("Content-Range"); v != "" {
		c.Header("Content-Range", v)
	}
	// 200 or 206, as the provider answered
	c.Status(resp.StatusCode)
	if _, err := io.Copy(c.Writer, resp.Body); err != nil {
		// Headers are gone at this point; nothing to do but log
		log.Printf("content copy aborted for media %d: %v", media.ID, err)
	}
}
