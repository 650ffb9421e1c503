package auth

import (
	"mezgeb/db"
	"mezgeb/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	userIdKey     = "id"
	oauthStateKey = "oauth_state"
)

type Session struct {
	sessions.Session
}

func LoadSession(c *gin.Context) *Session {
	return &Session{
		Session: sessions.Default(c),
	}
}

func (s *Session) LoginUser(id uint64) {
	s.Set(userIdKey, id)
	s.Save()
}

func (s *Session) LogoutUser() {
	s.Delete(userIdKey)
	s.Clear()
	s.Options(sessions.Options{Path: "/", MaxAge: -1})
	s.Save()
}

// SetOAuthState stores the anti-forgery state for the Google consent
// round-trip.
func (s *Session) SetOAuthState(state string) {
	s.Set(oauthStateKey, state)
	s.Save()
}

// TakeOAuthState returns and clears the stored state.
func (s *Session) TakeOAuthState() string {
	v := s.Get(oauthStateKey)
	s.Delete(oauthStateKey)
	s.Save()
	state, _ := v.(string)
	return state
}

func (s *Session) User() (user models.User) {
	id := s.Get(userIdKey)
	if id == nil {
		return
	}
	user.ID = id.(uint64)
	if db.Instance.First(&user).Error != nil {
		user.ID = 0
	}
	return
}
