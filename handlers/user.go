package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"mezgeb/auth"
	"mezgeb/db"
	"mezgeb/drive"
	"mezgeb/models"
	"mezgeb/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

// Variable so tests can stub the userinfo endpoint.
var userinfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleLogin starts the consent round-trip. AccessTypeOffline asks for a
// refresh token so uploads keep working long after the owner signed in.
func GoogleLogin(c *gin.Context) {
	state := utils.Rand16BytesToBase62()
	session := auth.LoadSession(c)
	session.SetOAuthState(state)
	url := drive.OAuthConfig().AuthCodeURL(state, oauth2.AccessTypeOffline)
	c.Redirect(http.StatusFound, url)
}

func GoogleCallback(c *gin.Context) {
	session := auth.LoadSession(c)
	state := c.Query("state")
	if state == "" || state != session.TakeOAuthState() {
		c.JSON(http.StatusBadRequest, Response{"state mismatch"})
		return
	}
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, Response{"missing code"})
		return
	}
	conf := drive.OAuthConfig()
	token, err := conf.Exchange(c, code)
	if err != nil {
		log.Printf("OAuth exchange failed: %v", err)
		c.JSON(http.StatusUnauthorized, Response{"sign-in failed"})
		return
	}
	resp, err := conf.Client(c, token).Get(userinfoEndpoint)
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{"sign-in failed"})
		return
	}
	defer resp.Body.Close()
	var info struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil || info.Email == "" {
		c.JSON(http.StatusInternalServerError, Response{"sign-in failed"})
		return
	}
	user, err := models.UserUpsertByEmail(info.Email, info.Name, info.Picture)
	if err != nil {
		c.JSON(http.StatusInternalServerError, DBError1Response)
		return
	}
	if err := drive.SaveCredential(user.ID, token); err != nil {
		c.JSON(http.StatusInternalServerError, DBError2Response)
		return
	}
	session.LoginUser(user.ID)
	c.Redirect(http.StatusFound, "/")
}

func UserGetStatus(c *gin.Context, user *models.User) {
	var count int64
	db.Instance.Model(&models.Credential{}).
		Where("user_id = ? and (access_token != '' or refresh_token != '')", user.ID).
		Count(&count)
	c.JSON(http.StatusOK, gin.H{"error": "", "user": user, "connected": count > 0})
}

func UserLogout(c *gin.Context, user *models.User) {
	session := auth.LoadSession(c)
	session.LogoutUser()
	c.JSON(http.StatusOK, OKResponse)
}
