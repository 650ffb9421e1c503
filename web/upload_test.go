package web_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"mezgeb/db"
	"mezgeb/drive"
	"mezgeb/drive/drivetest"
	"mezgeb/models"
	"mezgeb/ratelimit"
	"mezgeb/web"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupWeb(t *testing.T) *drivetest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:web%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	db.Instance = gdb
	models.Init()

	fake := drivetest.New()
	prevAPI, prevUpload := drive.APIBase, drive.UploadBase
	drive.APIBase = fake.APIBase()
	drive.UploadBase = fake.UploadBase()
	t.Cleanup(func() {
		drive.APIBase, drive.UploadBase = prevAPI, prevUpload
		fake.Close()
	})
	return fake
}

func createOwner(t *testing.T, connected bool) models.User {
	t.Helper()
	user := models.User{Email: "owner@example.com", Name: "Owner"}
	require.NoError(t, db.Instance.Create(&user).Error)
	if connected {
		// Zero expiry keeps the oauth2 token source from trying to refresh.
		require.NoError(t, db.Instance.Create(&models.Credential{
			UserID:      user.ID,
			AccessToken: "test-token",
		}).Error)
	}
	return user
}

func createEvent(t *testing.T, ownerID uint64, slug string) models.Event {
	t.Helper()
	event := models.Event{OwnerID: ownerID, Name: "Alice & Bob", Slug: slug}
	require.NoError(t, db.Instance.Create(&event).Error)
	return event
}

func uploadRouter(limiter ratelimit.Limiter) *gin.Engine {
	router := gin.New()
	router.POST("/api/uploads", web.NewUploadHandler(limiter).Process)
	return router
}

func uploadBody(t *testing.T, fields map[string]string, fileName, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="file"; filename="%s"`, fileName))
		header.Set("Content-Type", contentType)
		part, err := mw.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func postUpload(router *gin.Engine, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", body)
	req.Header.Set("Content-Type", contentType)
	req.RemoteAddr = "1.2.3.4:5678"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// recordingLimiter allows everything and keeps the keys it was asked about.
type recordingLimiter struct {
	keys []string
}

func (l *recordingLimiter) Allow(key string, max int, window time.Duration) bool {
	l.keys = append(l.keys, key)
	return true
}

type stubLimiter struct {
	denyIP     bool
	denyDevice bool
}

func (l stubLimiter) Allow(key string, max int, window time.Duration) bool {
	if l.denyIP && strings.Contains(key, "|ip|") {
		return false
	}
	if l.denyDevice && strings.Contains(key, "|fp|") {
		return false
	}
	return true
}

func TestUploadRejectsNonMultipart(t *testing.T) {
	setupWeb(t)
	router := uploadRouter(ratelimit.NewSlidingWindow())
	req := httptest.NewRequest(http.MethodPost, "/api/uploads", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Invalid content type")
}

func TestUploadRequiresFileAndSlug(t *testing.T) {
	setupWeb(t)
	router := uploadRouter(ratelimit.NewSlidingWindow())
	body, contentType := uploadBody(t, nil, "photo.jpg", "image/jpeg", []byte("x"))
	w := postUpload(router, body, contentType)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Missing file or slug")
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	setupWeb(t)
	router := uploadRouter(ratelimit.NewSlidingWindow())
	body, contentType := uploadBody(t,
		map[string]string{"slug": "alice-bob"}, "notes.pdf", "application/pdf", []byte("x"))
	w := postUpload(router, body, contentType)
	require.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	require.Contains(t, w.Body.String(), "Unsupported file type")
}

func TestUploadRejectsOversizedImage(t *testing.T) {
	setupWeb(t)
	router := uploadRouter(ratelimit.NewSlidingWindow())
	body, contentType := uploadBody(t,
		map[string]string{"slug": "alice-bob"}, "huge.jpg", "image/jpeg",
		make([]byte, 50<<20+1))
	w := postUpload(router, body, contentType)
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	require.Contains(t, w.Body.String(), "max 50 MB")
}

func TestUploadAcceptsImageAtSizeLimit(t *testing.T) {
	setupWeb(t)
	router := uploadRouter(ratelimit.NewSlidingWindow())
	// Exactly 50 MB passes the size gate; the unknown event stops the request
	// right after it.
	body, contentType := uploadBody(t,
		map[string]string{"slug": "no-such-event"}, "big.jpg", "image/jpeg",
		make([]byte, 50<<20))
	w := postUpload(router, body, contentType)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadRateLimitedByIP(t *testing.T) {
	setupWeb(t)
	router := uploadRouter(stubLimiter{denyIP: true})
	body, contentType := uploadBody(t,
		map[string]string{"slug": "alice-bob"}, "photo.jpg", "image/jpeg", []byte("x"))
	w := postUpload(router, body, contentType)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Contains(t, w.Body.String(), "Too many uploads")
}

func TestUploadRateLimitedByFingerprint(t *testing.T) {
	setupWeb(t)
	router := uploadRouter(stubLimiter{denyDevice: true})
	body, contentType := uploadBody(t,
		map[string]string{"slug": "alice-bob", "fingerprint": "device-1"},
		"photo.jpg", "image/jpeg", []byte("x"))
	w := postUpload(router, body, contentType)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestUploadUnknownEvent(t *testing.T) {
	setupWeb(t)
	router := uploadRouter(ratelimit.NewSlidingWindow())
	body, contentType := uploadBody(t,
		map[string]string{"slug": "no-such-event"}, "photo.jpg", "image/jpeg", []byte("x"))
	w := postUpload(router, body, contentType)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "Event not found")
}

func TestUploadOwnerNotConnected(t *testing.T) {
	setupWeb(t)
	owner := createOwner(t, false)
	createEvent(t, owner.ID, "alice-bob")
	router := uploadRouter(ratelimit.NewSlidingWindow())
	body, contentType := uploadBody(t,
		map[string]string{"slug": "alice-bob"}, "photo.jpg", "image/jpeg", []byte("x"))
	w := postUpload(router, body, contentType)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "Owner not connected to Google")
}

func TestUploadHappyPath(t *testing.T) {
	fake := setupWeb(t)
	owner := createOwner(t, true)
	event := createEvent(t, owner.ID, "alice-bob")
	router := uploadRouter(ratelimit.NewSlidingWindow())

	content := bytes.Repeat([]byte("a"), 2<<20)
	body, contentType := uploadBody(t,
		map[string]string{"slug": "alice-bob", "fingerprint": "device-1"},
		"photo.jpg", "image/jpeg", content)
	w := postUpload(router, body, contentType)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		OK    bool `json:"ok"`
		Media struct {
			ID        uint64 `json:"id"`
			SizeBytes string `json:"sizeBytes"`
			Status    string `json:"status"`
		} `json:"media"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.OK)
	require.Equal(t, "2097152", resp.Media.SizeBytes)
	require.Equal(t, "APPROVED", resp.Media.Status)

	// No album field: the default "General" album is created on first use.
	album, err := models.AlbumBySlug(event.ID, models.DefaultAlbumSlug)
	require.NoError(t, err)
	require.True(t, album.IsDefault)
	require.Equal(t, models.DefaultAlbumName, album.Name)
	require.NotNil(t, album.DriveApprovedFolderID)

	media := models.Media{}
	require.NoError(t, db.Instance.First(&media, resp.Media.ID).Error)
	require.Equal(t, event.ID, media.EventID)
	require.NotNil(t, media.AlbumID)
	require.Equal(t, album.ID, *media.AlbumID)
	require.Equal(t, models.MediaStatusApproved, media.Status)
	require.NotNil(t, media.ApprovedAt)

	stored := fake.Files[media.DriveFileID]
	require.NotNil(t, stored)
	require.Equal(t, []string{*album.DriveApprovedFolderID}, stored.Parents)
	require.Equal(t, content, stored.Content)
}

func TestUploadRateLimitKeysUseAlbumSlug(t *testing.T) {
	setupWeb(t)
	owner := createOwner(t, true)
	event := createEvent(t, owner.ID, "alice-bob")
	limiter := &recordingLimiter{}
	router := uploadRouter(limiter)

	// "Family" and "family!" resolve to the same album; the limiter must see
	// one bucket, not one per spelling.
	for _, albumField := range []string{"Family", "family!"} {
		body, contentType := uploadBody(t,
			map[string]string{"slug": "alice-bob", "album": albumField, "fingerprint": "device-1"},
			"photo.jpg", "image/jpeg", []byte("x"))
		w := postUpload(router, body, contentType)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	_, err := models.AlbumBySlug(event.ID, "family")
	require.NoError(t, err)
	require.Len(t, limiter.keys, 4)
	require.Equal(t, "family|ip|1.2.3.4", limiter.keys[0])
	require.Equal(t, "family|fp|device-1", limiter.keys[1])
	require.Equal(t, limiter.keys[0], limiter.keys[2])
	require.Equal(t, limiter.keys[1], limiter.keys[3])
}

func TestUploadTruncatesLongFingerprint(t *testing.T) {
	setupWeb(t)
	owner := createOwner(t, true)
	createEvent(t, owner.ID, "alice-bob")
	limiter := &recordingLimiter{}
	router := uploadRouter(limiter)

	long := strings.Repeat("f", 200)
	body, contentType := uploadBody(t,
		map[string]string{"slug": "alice-bob", "fingerprint": long},
		"photo.jpg", "image/jpeg", []byte("x"))
	w := postUpload(router, body, contentType)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Truncated once, then used consistently for the limiter key and the
	// stored row.
	require.Equal(t, "default|fp|"+long[:128], limiter.keys[1])
	media := models.Media{}
	require.NoError(t, db.Instance.Order("id DESC").First(&media).Error)
	require.Equal(t, long[:128], media.Fingerprint)
}

func TestUploadIntoNamedAlbum(t *testing.T) {
	fake := setupWeb(t)
	owner := createOwner(t, true)
	event := createEvent(t, owner.ID, "alice-bob")
	router := uploadRouter(ratelimit.NewSlidingWindow())

	body, contentType := uploadBody(t,
		map[string]string{"slug": "alice-bob", "album": "family"},
		"clip.mp4", "video/mp4", []byte("video-bytes"))
	w := postUpload(router, body, contentType)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	album, err := models.AlbumBySlug(event.ID, "family")
	require.NoError(t, err)
	require.False(t, album.IsDefault)
	require.NotNil(t, album.DriveApprovedFolderID)
	require.NotEmpty(t, fake.FolderByName("family (family)"))
}
