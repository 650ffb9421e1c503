package drive

import (
	"context"
	"errors"
	"time"

	"mezgeb/config"
	"mezgeb/db"
	"mezgeb/models"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

// ErrNotConnected means the owner has no usable Google credential stored.
// Callers surface it as a user-visible error and never retry.
var ErrNotConnected = errors.New("owner not connected to Google")

// Scopes requested at sign-in. drive.file limits access to files this app
// created, which is all the folder tree ever contains.
var Scopes = []string{
	"https://www.googleapis.com/auth/drive.file",
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
}

// OAuthConfig is shared by the sign-in flow and by token refresh on stored
// credentials.
func OAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     config.GOOGLE_CLIENT_ID,
		ClientSecret: config.GOOGLE_CLIENT_SECRET,
		RedirectURL:  config.OAUTH_REDIRECT_URL,
		Scopes:       Scopes,
		Endpoint:     google.Endpoint,
	}
}

// TokenSourceFor resolves the stored credential for a user. Returns
// ErrNotConnected when there is no credential row or when neither an access
// nor a refresh token is present.
func TokenSourceFor(ctx context.Context, userID uint64) (oauth2.TokenSource, error) {
	cred := models.Credential{}
	err := db.Instance.First(&cred, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotConnected
	}
	if err != nil {
		return nil, err
	}
	if cred.AccessToken == "" && cred.RefreshToken == "" {
		return nil, ErrNotConnected
	}
	token := &oauth2.Token{
		AccessToken:  cred.AccessToken,
		RefreshToken: cred.RefreshToken,
	}
	if cred.TokenExpiry > 0 {
		token.Expiry = time.Unix(cred.TokenExpiry, 0)
	}
	return OAuthConfig().TokenSource(ctx, token), nil
}

// SaveCredential stores (or replaces) the token pair for a user.
func SaveCredential(userID uint64, token *oauth2.Token) error {
	cred := models.Credential{}
	err := db.Instance.First(&cred, "user_id = ?", userID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	cred.UserID = userID
	cred.AccessToken = token.AccessToken
	// Google only returns a refresh token on first consent - keep the old one
	if token.RefreshToken != "" {
		cred.RefreshToken = token.RefreshToken
	}
	if !token.Expiry.IsZero() {
		cred.TokenExpiry = token.Expiry.Unix()
	}
	return db.Instance.Save(&cred).Error
}
