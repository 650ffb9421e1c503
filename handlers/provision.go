package handlers

import (
	"context"

	"mezgeb/drive"
	"mezgeb/models"
)

// ProvisionEventFolders ensures the event's Drive folder tree exists and
// caches the resulting ids on the event row. Callers decide whether a
// failure is fatal: event creation logs and continues, uploads do not.
func ProvisionEventFolders(ctx context.Context, event *models.Event) (*drive.FolderSet, error) {
	client, err := drive.ClientFor(ctx, event.OwnerID)
	if err != nil {
		return nil, err
	}
	fs, err := client.EnsureEventFolders(ctx, event.Name, event.Slug)
	if err != nil {
		return nil, err
	}
	if err := event.SetFolderIDs(fs.Root, fs.Uploads, fs.Approved, fs.Originals, fs.Exports); err != nil {
		return nil, err
	}
	return fs, nil
}

// ProvisionAlbumFolders does the same for an album, reusing the event's
// cached root folder id when present and provisioning (and caching) the
// event tree first when it is not.
func ProvisionAlbumFolders(ctx context.Context, event *models.Event, album *models.Album) (*drive.FolderSet, error) {
	knownRoot := ""
	if event.DriveRootFolderID != nil {
		knownRoot = *event.DriveRootFolderID
	}
	if knownRoot == "" {
		eventFolders, err := ProvisionEventFolders(ctx, event)
		if err != nil {
			return nil, err
		}
		knownRoot = eventFolders.Root
	}
	client, err := drive.ClientFor(ctx, event.OwnerID)
	if err != nil {
		return nil, err
	}
	fs, err := client.EnsureAlbumFolders(ctx, event.Name, event.Slug, album.Name, album.Slug, knownRoot)
	if err != nil {
		return nil, err
	}
	if err := album.SetFolderIDs(fs.Root, fs.Uploads, fs.Approved, fs.Originals, fs.Exports); err != nil {
		return nil, err
	}
	return fs, nil
}
