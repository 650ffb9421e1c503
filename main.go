package main

import (
	"log"
	"strings"
	"time"

	"mezgeb/auth"
	"mezgeb/config"
	"mezgeb/db"
	"mezgeb/handlers"
	"mezgeb/models"
	"mezgeb/ratelimit"
	"mezgeb/utils"
	"mezgeb/web"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	gormsessions "github.com/gin-contrib/sessions/gorm"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const (
	sessionCookieName     = "token"
	sessionExpirationTime = 365 * 86400 // 1 year
)

func main() {
	_ = godotenv.Load()
	db.Init()
	models.Init()

	if !config.DEBUG_MODE {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "PUT", "POST", "DELETE"},
		AllowHeaders:     []string{"Origin", "Range"},
		ExposeHeaders:    []string{"Content-Length", "Content-Range"},
		AllowCredentials: true,
		MaxAge:           30 * 24 * time.Hour,
	}))

	cookieStore := gormsessions.NewStore(db.Instance, true, []byte(config.SESSION_KEY))
	cookieStore.Options(sessions.Options{MaxAge: sessionExpirationTime})
	router.Use(sessions.Sessions(sessionCookieName, cookieStore))
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/media/content"})))
	}
	router.Use((&utils.CacheRouter{CacheTime: utils.CacheNoCache}).Handler()) // No cache by default, individual end-points can override that

	// Custom Auth Router
	authRouter := &auth.Router{Base: router}
	// Google sign-in (also stores the Drive credential)
	router.GET("/auth/google", handlers.GoogleLogin)
	router.GET("/auth/google/callback", handlers.GoogleCallback)
	authRouter.GET("/user/status", handlers.UserGetStatus)
	authRouter.POST("/user/logout", handlers.UserLogout)
	// Event handlers
	authRouter.POST("/event/create", handlers.EventCreate)
	authRouter.GET("/event/list", handlers.EventList)
	authRouter.GET("/event/get", handlers.EventGet)
	// Album handlers
	authRouter.POST("/album/create", handlers.AlbumCreate)
	authRouter.GET("/album/list", handlers.AlbumList)
	authRouter.POST("/album/save", handlers.AlbumSave)
	authRouter.POST("/album/delete", handlers.AlbumDelete)
	// Media handlers
	authRouter.GET("/media/list", handlers.MediaList)
	authRouter.GET("/media/pending", handlers.MediaPending)
	authRouter.POST("/media/move", handlers.MediaMove)
	authRouter.POST("/media/approve", handlers.MediaApprove)

	/*
	 *	Guest-facing endpoints (shared link, no account)
	 */
	uploadHandler := web.NewUploadHandler(ratelimit.NewSlidingWindow())
	router.GET("/g/:slug", web.GalleryView)
	router.POST("/api/uploads", uploadHandler.Process)
	router.GET("/api/media/content", web.MediaContent)

	var err error
	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		err = router.Run(config.BIND_ADDRESS)
	}
	log.Fatalf("Server stopped: %v", err)
}
