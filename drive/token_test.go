package drive

import (
	"context"
	"fmt"
	"testing"
	"time"

	"mezgeb/db"
	"mezgeb/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) {
	t.Helper()
	dsn := fmt.Sprintf("file:drivetoken%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	db.Instance = gdb
	models.Init()
}

func TestTokenSourceForNoCredential(t *testing.T) {
	setupDB(t)
	_, err := TokenSourceFor(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotConnected)
}

func TestTokenSourceForEmptyTokens(t *testing.T) {
	setupDB(t)
	require.NoError(t, db.Instance.Create(&models.Credential{UserID: 42}).Error)
	_, err := TokenSourceFor(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotConnected)
}

func TestTokenSourceForStoredToken(t *testing.T) {
	setupDB(t)
	require.NoError(t, db.Instance.Create(&models.Credential{
		UserID:      42,
		AccessToken: "stored-access-token",
	}).Error)
	ts, err := TokenSourceFor(context.Background(), 42)
	require.NoError(t, err)
	token, err := ts.Token()
	require.NoError(t, err)
	require.Equal(t, "stored-access-token", token.AccessToken)
}
