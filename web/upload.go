package web

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mezgeb/db"
	"mezgeb/drive"
	"mezgeb/handlers"
	"mezgeb/models"
	"mezgeb/ratelimit"
	"mezgeb/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	maxImageUploadBytes = 50 << 20  // 50 MB
	maxVideoUploadBytes = 500 << 20 // 500 MB

	uploadWindow         = time.Hour
	maxUploadsPerIP      = 30
	maxUploadsPerDevice  = 15
	maxFingerprintLength = 128
)

// UploadHandler ingests guest uploads. The limiter is injected so the
// counter store is explicit rather than package-global state.
type UploadHandler struct {
	Limiter ratelimit.Limiter
}

func NewUploadHandler(limiter ratelimit.Limiter) *UploadHandler {
	return &UploadHandler{Limiter: limiter}
}

// Process handles POST /api/uploads: multipart fields "file", "slug",
// optional "album" and "fingerprint". Uploads are auto-approved and land in
// the album's Approved folder.
func (h *UploadHandler) Process(c *gin.Context) {
	if !strings.Contains(c.ContentType(), "multipart/form-data") {
		c.JSON(http.StatusBadRequest, handlers.Response{Error: "Invalid content type"})
		return
	}
	file, err := c.FormFile("file")
	slug := c.PostForm("slug")
	if err != nil || slug == "" {
		c.JSON(http.StatusBadRequest, handlers.Response{Error: "Missing file or slug"})
		return
	}
	mimeType := file.Header.Get("Content-Type")
	isImage := strings.HasPrefix(mimeType, "image/")
	isVideo := strings.HasPrefix(mimeType, "video/")
	if !isImage && !isVideo {
		c.JSON(http.StatusUnsupportedMediaType, handlers.Response{Error: "Unsupported file type"})
		return
	}
	limit := int64(maxImageUploadBytes)
	if isVideo {
		limit = maxVideoUploadBytes
	}
	if file.Size > limit {
		c.JSON(http.StatusRequestEntityTooLarge,
			handlers.Response{Error: fmt.Sprintf("File too large (max %d MB)", limit>>20)})
		return
	}

	// Canonical slug before anything keys on it: "Family", "family" and
	// "family!" are all the same album and must share rate-limit buckets.
	albumSlug := utils.Slugify(c.PostForm("album"))
	if albumSlug == "" {
		albumSlug = models.DefaultAlbumSlug
	}
	fingerprint := c.PostForm("fingerprint")
	if len(fingerprint) > maxFingerprintLength {
		fingerprint = fingerprint[:maxFingerprintLength]
	}
	if !h.Limiter.Allow(albumSlug+"|ip|"+c.ClientIP(), maxUploadsPerIP, uploadWindow) {
		c.JSON(http.StatusTooManyRequests, handlers.Response{Error: "Too many uploads, try again later"})
		return
	}
	if fingerprint != "" &&
		!h.Limiter.Allow(albumSlug+"|fp|"+fingerprint, maxUploadsPerDevice, uploadWindow) {
		c.JSON(http.StatusTooManyRequests, handlers.Response{Error: "Too many uploads, try again later"})
		return
	}

	event, err := models.EventBySlug(slug)
	if err != nil {
		c.JSON(http.StatusNotFound, handlers.Response{Error: "Event not found"})
		return
	}
	album, err := models.FindOrCreateAlbum(event.ID, albumSlug)
	if err != nil {
		log.Printf("album resolve failed for event %d: %v", event.ID, err)
		c.JSON(http.StatusInternalServerError, handlers.Response{Error: "Upload failed"})
		return
	}

	var approvedID string
	if album.DriveApprovedFolderID != nil && *album.DriveApprovedFolderID != "" {
		approvedID = *album.DriveApprovedFolderID
	} else {
		// Lazy retry: ids may have been left unset by a best-effort
		// provisioning failure at creation time. Here the folder is required.
		fs, err := handlers.ProvisionAlbumFolders(c, &event, album)
		if err != nil {
			log.Printf("folder provisioning failed for album %d: %v", album.ID, err)
			if errors.Is(err, drive.ErrNotConnected) {
				c.JSON(http.StatusInternalServerError, handlers.NotConnectedResponse)
				return
			}
			c.JSON(http.StatusInternalServerError, handlers.Response{Error: "Upload failed"})
			return
		}
		approvedID = fs.Approved
	}

	client, err := drive.ClientFor(c, event.OwnerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handlers.NotConnectedResponse)
		return
	}
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, handlers.Response{Error: "Upload failed"})
		return
	}
	defer src.Close()
	// Guests routinely send files named IMG_0001.jpg; prefix with a uuid so
	// names stay unique inside the shared folder.
	driveName := uuid.NewString() + "-" + file.Filename
	uploaded, err := client.UploadFile(c, driveName, mimeType, approvedID, src)
	if err != nil {
		log.Printf("Drive upload failed for event %d: %v", event.ID, err)
		c.JSON(http.StatusInternalServerError, handlers.Response{Error: "Upload failed"})
		return
	}

	sizeBytes := file.Size
	if uploaded.Size != "" {
		if parsed, err := strconv.ParseInt(uploaded.Size, 10, 64); err == nil {
			sizeBytes = parsed
		}
	}
	if uploaded.MimeType != "" {
		mimeType = uploaded.MimeType
	}
	now := time.Now().Unix()
	media := models.Media{
		EventID:       event.ID,
		AlbumID:       &album.ID,
		DriveFileID:   uploaded.ID,
		FileName:      file.Filename,
		MimeType:      mimeType,
		SizeBytes:     sizeBytes,
		Status:        models.MediaStatusApproved,
		ApprovedAt:    &now,
		WebViewLink:   uploaded.WebViewLink,
		ThumbnailLink: uploaded.ThumbnailLink,
		Fingerprint:   fingerprint,
	}
	if err := db.Instance.Create(&media).Error; err != nil {
		log.Printf("media create failed for event %d: %v", event.ID, err)
		c.JSON(http.StatusInternalServerError, handlers.Response{Error: "Upload failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "media": media})
}
