package handlers

import (
	"log"
	"net/http"

	"mezgeb/db"
	"mezgeb/models"
	"mezgeb/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type AlbumInfo struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	IsDefault  bool   `json:"isDefault"`
	MediaCount int64  `json:"mediaCount"`
	Thumbnail  string `json:"thumbnail"`
}

type AlbumCreateRequest struct {
	EventSlug string `json:"event_slug" binding:"required"`
	Name      string `json:"name" binding:"required,min=1,max=100"`
	Slug      string `json:"slug" binding:"required"`
}

type AlbumSaveRequest struct {
	ID           uint64  `json:"id" binding:"required"`
	Name         string  `json:"name" binding:"omitempty,min=1,max=100"`
	Slug         string  `json:"slug"`
	CoverMediaID *uint64 `json:"cover_media_id"`
}

type AlbumIDRequest struct {
	ID uint64 `json:"id" binding:"required"`
}

// ownedAlbum loads an album and verifies the calling user owns its event.
func ownedAlbum(c *gin.Context, user *models.User, albumID uint64) (album models.Album, event models.Event, ok bool) {
	if err := db.Instance.First(&album, albumID).Error; err != nil {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return
	}
	if err := db.Instance.First(&event, album.EventID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	if event.OwnerID != user.ID {
		c.JSON(http.StatusForbidden, ForbiddenResponse)
		return
	}
	return album, event, true
}

func AlbumCreate(c *gin.Context, user *models.User) {
	r := AlbumCreateRequest{}
	if err := c.ShouldBindWith(&r, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	if !utils.IsValidSlug(r.Slug) {
		c.JSON(http.StatusBadRequest, Response{"invalid slug"})
		return
	}
	event, err := models.EventBySlug(r.EventSlug)
	if err != nil {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return
	}
	if event.OwnerID != user.ID {
		c.JSON(http.StatusForbidden, ForbiddenResponse)
		return
	}
	if _, err := models.AlbumBySlug(event.ID, r.Slug); err == nil {
		c.JSON(http.StatusConflict, Response{"Album slug already in use"})
		return
	}
	album := models.Album{
		EventID: event.ID,
		Name:    r.Name,
		Slug:    r.Slug,
	}
	if err := db.Instance.Create(&album).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	// Best-effort, same policy as event creation.
	if _, err := ProvisionAlbumFolders(c, &event, &album); err != nil {
		log.Printf("Drive provisioning failed for album %d: %v", album.ID, err)
	}
	c.JSON(http.StatusOK, gin.H{"album": album})
}

func AlbumList(c *gin.Context, user *models.User) {
	event, err := models.EventBySlug(c.Query("slug"))
	if err != nil {
		c.JSON(http.StatusNotFound, NotFoundResponse)
		return
	}
	if event.OwnerID != user.ID {
		c.JSON(http.StatusForbidden, ForbiddenResponse)
		return
	}
	rows, err := db.Instance.
		Table("albums").
		Select("albums.id, albums.name, albums.slug, albums.is_default, count(media.id)").
		Joins("left join media on media.album_id = albums.id and media.status = ?", models.MediaStatusApproved).
		Where("albums.event_id = ?", event.ID).
		Group("albums.id, albums.name, albums.slug, albums.is_default").
		Order("albums.created_at ASC").
		Rows()
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	defer rows.Close()
	result := []AlbumInfo{}
	for rows.Next() {
		info := AlbumInfo{}
		if err = rows.Scan(&info.ID, &info.Name, &info.Slug, &info.IsDefault, &info.MediaCount); err != nil {
			c.JSON(http.StatusInternalServerError, DBError2Response)
			return
		}
		result = append(result, info)
	}
	for i, a := range result {
		if a.MediaCount == 0 {
			continue
		}
		// Latest approved thumbnail as the album cover fallback
		var thumb string
		err := db.Instance.
			Table("media").
			Select("thumbnail_link").
			Where("album_id = ? and status = ?", a.ID, models.MediaStatusApproved).
			Order("created_at DESC").
			Limit(1).
			Scan(&thumb).Error
		if err != nil {
			continue
		}
		result[i].Thumbnail = thumb
	}
	c.JSON(http.StatusOK, gin.H{"albums": result})
}

func AlbumSave(c *gin.Context, user *models.User) {
	r := AlbumSaveRequest{}
	if err := c.ShouldBindWith(&r, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	album, event, ok := ownedAlbum(c, user, r.ID)
	if !ok {
		return
	}
	if r.Slug != "" && r.Slug != album.Slug {
		if !utils.IsValidSlug(r.Slug) {
			c.JSON(http.StatusBadRequest, Response{"invalid slug"})
			return
		}
		if _, err := models.AlbumBySlug(event.ID, r.Slug); err == nil {
			c.JSON(http.StatusConflict, Response{"Album slug already in use"})
			return
		}
		album.Slug = r.Slug
	}
	if r.Name != "" {
		album.Name = r.Name
	}
	if r.CoverMediaID != nil {
		media := models.Media{}
		if err := db.Instance.First(&media, *r.CoverMediaID).Error; err != nil || media.EventID != event.ID {
			c.JSON(http.StatusBadRequest, Response{"invalid cover media"})
			return
		}
		album.CoverMediaID = r.CoverMediaID
	}
	if err := db.Instance.Save(&album).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, gin.H{"album": album})
}

func AlbumDelete(c *gin.Context, user *models.User) {
	r := AlbumIDRequest{}
	if err := c.ShouldBindWith(&r, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, Response{err.Error()})
		return
	}
	album, _, ok := ownedAlbum(c, user, r.ID)
	if !ok {
		return
	}
	if err := db.Instance.Delete(&album).Error; err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}
