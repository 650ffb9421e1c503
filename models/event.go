package models

import (
	"mezgeb/db"
)

type Event struct {
	ID          uint64 `gorm:"primaryKey" json:"id"`
	CreatedAt   int64  `json:"createdAt"`
	UpdatedAt   int64  `json:"-"`
	OwnerID     uint64 `gorm:"not null;index" json:"ownerId"`
	Owner       User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Name        string `gorm:"type:varchar(100)" json:"name"`
	Slug        string `gorm:"type:varchar(64);index:uniq_event_slug,unique" json:"slug"`
	Description string `gorm:"type:varchar(1000)" json:"description"`
	AccentColor string `gorm:"type:varchar(7)" json:"accentColor"`
	Date        *int64 `json:"date"`

	// Cached Drive folder ids. These mirror provider-side state and can be
	// null even when the folders exist; they are re-resolved on next use.
	DriveRootFolderID      *string `gorm:"type:varchar(128)" json:"-"`
	DriveUploadsFolderID   *string `gorm:"type:varchar(128)" json:"-"`
	DriveApprovedFolderID  *string `gorm:"type:varchar(128)" json:"-"`
	DriveOriginalsFolderID *string `gorm:"type:varchar(128)" json:"-"`
	DriveExportsFolderID   *string `gorm:"type:varchar(128)" json:"-"`
}

func EventBySlug(slug string) (event Event, err error) {
	err = db.Instance.First(&event, "slug = ?", slug).Error
	return
}

// SetFolderIDs caches a freshly provisioned folder tree on the event row.
func (e *Event) SetFolderIDs(root, uploads, approved, originals, exports string) error {
	e.DriveRootFolderID = &root
	e.DriveUploadsFolderID = &uploads
	e.DriveApprovedFolderID = &approved
	e.DriveOriginalsFolderID = &originals
	e.DriveExportsFolderID = &exports
	return db.Instance.Save(e).Error
}
