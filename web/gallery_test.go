package web_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mezgeb/db"
	"mezgeb/models"
	"mezgeb/web"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func galleryRouter() *gin.Engine {
	router := gin.New()
	router.GET("/g/:slug", web.GalleryView)
	return router
}

func TestGalleryViewUnknownEvent(t *testing.T) {
	setupWeb(t)
	req := httptest.NewRequest(http.MethodGet, "/g/no-such-event", nil)
	w := httptest.NewRecorder()
	galleryRouter().ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestGalleryViewShowsOnlyApprovedMedia(t *testing.T) {
	setupWeb(t)
	owner := createOwner(t, true)
	event := createEvent(t, owner.ID, "alice-bob")
	album := models.Album{EventID: event.ID, Name: "Family", Slug: "family"}
	require.NoError(t, db.Instance.Create(&album).Error)
	approved := models.Media{
		EventID: event.ID, AlbumID: &album.ID,
		DriveFileID: "file-1", Status: models.MediaStatusApproved,
	}
	pending := models.Media{
		EventID: event.ID, AlbumID: &album.ID,
		DriveFileID: "file-2", Status: models.MediaStatusPending,
	}
	require.NoError(t, db.Instance.Create(&approved).Error)
	require.NoError(t, db.Instance.Create(&pending).Error)

	req := httptest.NewRequest(http.MethodGet, "/g/alice-bob", nil)
	w := httptest.NewRecorder()
	galleryRouter().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Event struct {
			Name string `json:"name"`
			Slug string `json:"slug"`
		} `json:"event"`
		Albums []models.Album `json:"albums"`
		Media  []struct {
			ID     uint64 `json:"id"`
			Status string `json:"status"`
		} `json:"media"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "alice-bob", resp.Event.Slug)
	require.Len(t, resp.Albums, 1)
	require.Len(t, resp.Media, 1)
	require.Equal(t, approved.ID, resp.Media[0].ID)
	require.Equal(t, "APPROVED", resp.Media[0].Status)
}
