package handlers

import (
	"errors"
	"net/http"
	"time"

	"mezgeb/db"
	"mezgeb/drive"
	"mezgeb/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type MediaMoveRequest struct {
	MediaID       uint64 `json:"media_id" binding:"required"`
	TargetAlbumID uint64 `json:"target_album_id" binding:"required"`
}

type MediaIDRequest struct {
	MediaID uint64 `json:"media_id" binding:"required"`
}

func MediaList(c *gin.Context, user *models.User) {
	r := struct {
		AlbumID uint64 `form:"album_id" binding:"required"`
	}{}
	if err := c.ShouldBindQuery(&r); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	_, _, ok := ownedAlbum(c, user, r.AlbumID)
	if !ok {
		return
	}
	media := []models.Media{}
	err := db.Instance.
		Where("album_id = ?", r.AlbumID).
		Order("created_at DESC").
		Find(&media).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, gin.H{"media": media})
}

// MediaPending lists not-yet-approved media for an event. Only populated
// when the legacy pending flow is in use; current uploads auto-approve.
func MediaPending(c *gin.Context, user *models.User) {
	event, err := models.EventBySlug(c.Query("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return
	}
	if event.OwnerID != user.ID {
		c.JSON(http.StatusForbidden, ForbiddenResponse)
		return
	}
	media := []models.Media{}
	err = db.Instance.
		Where("event_id = ? and status = ?", event.ID, models.MediaStatusPending).
		Order("created_at ASC").
		Find(&media).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, gin.H{"media": media})
}

// ownedMedia loads a media row and verifies the calling user owns its event.
func ownedMedia(c *gin.Context, user *models.User, mediaID uint64) (media models.Media, event models.Event, ok bool) {
	if err := db.Instance.First(&media, mediaID).Error; err != nil {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return
	}
	if err := db.Instance.First(&event, media.EventID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	if event.OwnerID != user.ID {
		c.JSON(http.StatusForbidden, ForbiddenResponse)
		return
	}
	return media, event, true
}

// MediaMove relocates a file into the target album's Approved folder and
// repoints the media row. The target must belong to the media's event.
func MediaMove(c *gin.Context, user *models.User) {
	r := MediaMoveRequest{}
	if err := c.ShouldBindWith(&r, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	media, event, ok := ownedMedia(c, user, r.MediaID)
	if !ok {
		return
	}
	album := models.Album{}
	if err := db.Instance.First(&album, r.TargetAlbumID).Error; err != nil || album.EventID != media.EventID {
		c.JSON(http.StatusBadRequest, Response{"Invalid target"})
		return
	}
	var approvedID string
	if album.DriveApprovedFolderID != nil && *album.DriveApprovedFolderID != "" {
		approvedID = *album.DriveApprovedFolderID
	} else {
		fs, err := ProvisionAlbumFolders(c, &event, &album)
		if err != nil {
			if errors.Is(err, drive.ErrNotConnected) {
				c.JSON(http.StatusBadRequest, NotConnectedResponse)
				return
			}
			c.JSON(http.StatusInternalServerError, Response{"Target folder unavailable"})
			return
		}
		approvedID = fs.Approved
	}
	client, err := drive.ClientFor(c, event.OwnerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, NotConnectedResponse)
		return
	}
	if err := client.MoveFile(c, media.DriveFileID, approvedID); err != nil {
		c.JSON(http.StatusInternalServerError, Response{"Move failed"})
		return
	}
	media.AlbumID = &album.ID
	if err := db.Instance.Save(&media).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBError2Response)
		return
	}
	c.JSON(http.StatusOK, gin.H{"media": media})
}

// MediaApprove is the legacy pending flow: move the file into the event's
// Approved folder and flip the status.
func MediaApprove(c *gin.Context, user *models.User) {
	r := MediaIDRequest{}
	if err := c.ShouldBindWith(&r, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	media, event, ok := ownedMedia(c, user, r.MediaID)
	if !ok {
		return
	}
	var approvedID string
	if event.DriveApprovedFolderID != nil && *event.DriveApprovedFolderID != "" {
		approvedID = *event.DriveApprovedFolderID
	} else {
		fs, err := ProvisionEventFolders(c, &event)
		if err != nil {
			if errors.Is(err, drive.ErrNotConnected) {
				c.JSON(http.StatusBadRequest, NotConnectedResponse)
				return
			}
			c.JSON(http.StatusInternalServerError, Response{"Folders unavailable"})
			return
		}
		approvedID = fs.Approved
	}
	client, err := drive.ClientFor(c, event.OwnerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, NotConnectedResponse)
		return
	}
	if err := client.MoveFile(c, media.DriveFileID, approvedID); err != nil {
		c.JSON(http.StatusInternalServerError, Response{"Move failed"})
		return
	}
	now := time.Now().Unix()
	media.Status = models.MediaStatusApproved
	media.ApprovedAt = &now
	if err := db.Instance.Save(&media).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBError2Response)
		return
	}
	c.JSON(http.StatusOK, gin.H{"media": media})
}
