package config

import (
	"os"
	"strings"
)

var (
	TLS_DOMAINS          = "" // e.g. "gallery.example.com,www.gallery.example.com"
	MYSQL_DSN            = "" // MySQL will be used if this is set
	SQLITE_FILE          = "" // SQLite will be used if MYSQL_DSN is not configured and this is set
	BIND_ADDRESS         = "0.0.0.0:8080"
	DEBUG_MODE           = true
	SESSION_KEY          = "this is a long key" // override in production
	GOOGLE_CLIENT_ID     = ""
	GOOGLE_CLIENT_SECRET = ""
	OAUTH_REDIRECT_URL   = "http://localhost:8080/auth/google/callback"
	DRIVE_ROOT_FOLDER    = "Mezgeb" // top-level folder in the owner's Drive
)

func init() {
	readEnvString("TLS_DOMAINS", &TLS_DOMAINS)
	readEnvString("MYSQL_DSN", &MYSQL_DSN)
	readEnvString("SQLITE_FILE", &SQLITE_FILE)
	readEnvString("BIND_ADDRESS", &BIND_ADDRESS)
	readEnvBool("DEBUG_MODE", &DEBUG_MODE)
	readEnvString("SESSION_KEY", &SESSION_KEY)
	readEnvString("GOOGLE_CLIENT_ID", &GOOGLE_CLIENT_ID)
	readEnvString("GOOGLE_CLIENT_SECRET", &GOOGLE_CLIENT_SECRET)
	readEnvString("OAUTH_REDIRECT_URL", &OAUTH_REDIRECT_URL)
	readEnvString("DRIVE_ROOT_FOLDER", &DRIVE_ROOT_FOLDER)
}

func readEnvString(name string, value *string) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	*value = v
}

func readEnvBool(name string, value *bool) {
	v := strings.ToLower(os.Getenv(name))
	if v == "true" || v == "1" || v == "yes" || v == "on" {
		*value = true
	} else if v == "false" || v == "0" || v == "no" || v == "off" {
		*value = false
	}
}
