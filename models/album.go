package models

import (
	"errors"

	"mezgeb/db"
	"mezgeb/utils"

	"gorm.io/gorm"
)

const (
	DefaultAlbumSlug = "default"
	DefaultAlbumName = "General"
)

type Album struct {
	ID           uint64  `gorm:"primaryKey" json:"id"`
	CreatedAt    int64   `json:"createdAt"`
	UpdatedAt    int64   `json:"-"`
	EventID      uint64  `gorm:"not null;index:uniq_album_slug,unique,priority:1" json:"eventId"`
	Event        Event   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Name         string  `gorm:"type:varchar(100)" json:"name"`
	Slug         string  `gorm:"type:varchar(64);index:uniq_album_slug,unique,priority:2" json:"slug"`
	CoverMediaID *uint64 `json:"coverMediaId"`
	IsDefault    bool    `gorm:"not null;default:false" json:"isDefault"`

	DriveFolderID          *string `gorm:"type:varchar(128)" json:"-"`
	DriveUploadsFolderID   *string `gorm:"type:varchar(128)" json:"-"`
	DriveApprovedFolderID  *string `gorm:"type:varchar(128)" json:"-"`
	DriveOriginalsFolderID *string `gorm:"type:varchar(128)" json:"-"`
	DriveExportsFolderID   *string `gorm:"type:varchar(128)" json:"-"`
}

func AlbumBySlug(eventID uint64, slug string) (album Album, err error) {
	err = db.Instance.First(&album, "event_id = ? and slug = ?", eventID, slug).Error
	return
}

// FindOrCreateAlbum resolves the album a guest is uploading to, creating it
// on first use. An empty or unknown slug falls back to the event's default
// "General" album.
func FindOrCreateAlbum(eventID uint64, slug string) (*Album, error) {
	slug = utils.Slugify(slug)
	if slug == "" {
		slug = DefaultAlbumSlug
	}
	album := Album{}
	err := db.Instance.First(&album, "event_id = ? and slug = ?", eventID, slug).Error
	if err == nil {
		return &album, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	album = Album{
		EventID: eventID,
		Name:    slug,
		Slug:    slug,
	}
	if slug == DefaultAlbumSlug {
		album.Name = DefaultAlbumName
		album.IsDefault = true
	}
	// Two concurrent first uploads can both reach this create; the unique
	// (event_id, slug) index rejects the loser.
	if err := db.Instance.Create(&album).Error; err != nil {
		return nil, err
	}
	return &album, nil
}

// SetFolderIDs caches a freshly provisioned folder tree on the album row.
func (a *Album) SetFolderIDs(folder, uploads, approved, originals, exports string) error {
	a.DriveFolderID = &folder
	a.DriveUploadsFolderID = &uploads
	a.DriveApprovedFolderID = &approved
	a.DriveOriginalsFolderID = &originals
	a.DriveExportsFolderID = &exports
	return db.Instance.Save(a).Error
}
