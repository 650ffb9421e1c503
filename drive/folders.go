package drive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"mezgeb/config"
)

const folderMimeType = "application/vnd.google-apps.folder"

// FolderSet holds the provider folder ids for one event or album level.
// Root is the event (or album) folder itself.
type FolderSet struct {
	Root      string
	Uploads   string
	Approved  string
	Originals string
	Exports   string
}

// EventFolderName includes the slug so two events with the same name get
// distinct folders.
func EventFolderName(name, slug string) string {
	return name + " (" + slug + ")"
}

func AlbumFolderName(name, slug string) string {
	return name + " (" + slug + ")"
}

// escapeQuery escapes a value embedded in a Drive files.list query string.
func escapeQuery(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `'`, `\'`)
}

// FindFolder returns the id of an existing, non-trashed folder with the
// exact name under the given parent ("" means the Drive root), or "" when
// there is none.
func (c *Client) FindFolder(ctx context.Context, name, parentID string) (string, error) {
	parent := parentID
	if parent == "" {
		parent = "root"
	}
	q := fmt.Sprintf("mimeType = '%s' and name = '%s' and trashed = false and '%s' in parents",
		folderMimeType, escapeQuery(name), parent)
	params := url.Values{}
	params.Set("q", q)
	params.Set("fields", "files(id,name)")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/files?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	var result struct {
		Files []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"files"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if len(result.Files) == 0 {
		return "", nil
	}
	return result.Files[0].ID, nil
}

// CreateFolder creates a folder under the given parent ("" means the Drive
// root) and returns its id.
func (c *Client) CreateFolder(ctx context.Context, name, parentID string) (string, error) {
	meta := map[string]interface{}{
		"name":     name,
		"mimeType": folderMimeType,
	}
	if parentID != "" {
		meta["parents"] = []string{parentID}
	}
	body, err := json.Marshal(meta)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/files?fields=id", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// ensureFolder is the idempotency primitive: lookup by exact name first,
// create only when missing. Two concurrent calls can still both create -
// there is no provider-side lock, and that race is accepted.
func (c *Client) ensureFolder(ctx context.Context, name, parentID string) (string, error) {
	id, err := c.FindFolder(ctx, name, parentID)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}
	return c.CreateFolder(ctx, name, parentID)
}

// ensureSubfolders creates the four structural folders every event and
// album folder carries.
func (c *Client) ensureSubfolders(ctx context.Context, parentID string) (*FolderSet, error) {
	fs := &FolderSet{Root: parentID}
	var err error
	if fs.Uploads, err = c.ensureFolder(ctx, "Uploads", parentID); err != nil {
		return nil, err
	}
	if fs.Approved, err = c.ensureFolder(ctx, "Approved", parentID); err != nil {
		return nil, err
	}
	if fs.Originals, err = c.ensureFolder(ctx, "Originals", parentID); err != nil {
		return nil, err
	}
	if fs.Exports, err = c.ensureFolder(ctx, "Exports", parentID); err != nil {
		return nil, err
	}
	return fs, nil
}

// EnsureEventFolders makes sure the event's folder tree exists:
//
//	<DRIVE_ROOT_FOLDER>/<Event Name> (<slug>)/{Uploads,Approved,Originals,Exports}
//
// Existing folders are reused, missing ones created.
func (c *Client) EnsureEventFolders(ctx context.Context, eventName, eventSlug string) (*FolderSet, error) {
	rootID, err := c.ensureFolder(ctx, config.DRIVE_ROOT_FOLDER, "")
	if err != nil {
		return nil, err
	}
	eventFolderID, err := c.ensureFolder(ctx, EventFolderName(eventName, eventSlug), rootID)
	if err != nil {
		return nil, err
	}
	return c.ensureSubfolders(ctx, eventFolderID)
}

// EnsureAlbumFolders makes sure the album's folder tree exists:
//
//	<event folder>/Albums/<Album Name> (<slug>)/{Uploads,Approved,Originals,Exports}
//
// When knownEventRootID is empty the event tree is provisioned first.
func (c *Client) EnsureAlbumFolders(ctx context.Context, eventName, eventSlug, albumName, albumSlug, knownEventRootID string) (*FolderSet, error) {
	eventRootID := knownEventRootID
	if eventRootID == "" {
		eventFolders, err := c.EnsureEventFolders(ctx, eventName, eventSlug)
		if err != nil {
			return nil, err
		}
		eventRootID = eventFolders.Root
	}
	albumsRootID, err := c.ensureFolder(ctx, "Albums", eventRootID)
	if err != nil {
		return nil, err
	}
	albumFolderID, err := c.ensureFolder(ctx, AlbumFolderName(albumName, albumSlug), albumsRootID)
	if err != nil {
		return nil, err
	}
	return c.ensureSubfolders(ctx, albumFolderID)
}
