package models

import (
	"errors"

	"gorm.io/gorm"
)

type MediaStatus string

const (
	MediaStatusPending  MediaStatus = "PENDING"
	MediaStatusApproved MediaStatus = "APPROVED"
)

type Media struct {
	ID        uint64  `gorm:"primaryKey" json:"id"`
	CreatedAt int64   `json:"createdAt"`
	UpdatedAt int64   `json:"-"`
	EventID   uint64  `gorm:"not null;index" json:"eventId"`
	Event     Event   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	AlbumID   *uint64 `gorm:"index" json:"albumId"`
	Album     Album   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	DriveFileID string `gorm:"type:varchar(128);not null" json:"driveFileId"`
	FileName    string `gorm:"type:varchar(300)" json:"fileName"`
	MimeType    string `gorm:"type:varchar(100)" json:"mimeType"`
	// Serialized as a decimal string so large files don't lose precision in
	// JavaScript clients.
	SizeBytes     int64       `json:"sizeBytes,string"`
	Status        MediaStatus `gorm:"type:varchar(10);not null;default:'PENDING'" json:"status"`
	ApprovedAt    *int64      `json:"approvedAt"`
	WebViewLink   string      `gorm:"type:varchar(2000)" json:"webViewLink"`
	ThumbnailLink string      `gorm:"type:varchar(2000)" json:"thumbnailLink"`
	Fingerprint   string      `gorm:"type:varchar(128)" json:"-"`
}

var ErrAlbumEventMismatch = errors.New("album belongs to a different event")

// BeforeSave enforces that a media's album, when set, belongs to the same
// event as the media itself.
func (m *Media) BeforeSave(tx *gorm.DB) error {
	if m.AlbumID == nil {
		return nil
	}
	var album Album
	if err := tx.First(&album, *m.AlbumID).Error; err != nil {
		return err
	}
	if album.EventID != m.EventID {
		return ErrAlbumEventMismatch
	}
	return nil
}
