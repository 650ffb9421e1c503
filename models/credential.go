package models

// Credential holds the owner's Google OAuth token pair. It is written by the
// sign-in callback and read-only everywhere else.
type Credential struct {
	ID           uint64 `gorm:"primaryKey"`
	CreatedAt    int64
	UpdatedAt    int64
	UserID       uint64 `gorm:"index:uniq_credential_user,unique;not null"`
	User         User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	AccessToken  string `gorm:"type:varchar(2048)"`
	RefreshToken string `gorm:"type:varchar(512)"`
	TokenExpiry  int64  // unix seconds, 0 when unknown
}
