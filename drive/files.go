package drive

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
)

// File mirrors the subset of the Drive file resource this app reads.
// Size comes back as a decimal string.
type File struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	MimeType      string   `json:"mimeType"`
	Size          string   `json:"size,omitempty"`
	WebViewLink   string   `json:"webViewLink,omitempty"`
	ThumbnailLink string   `json:"thumbnailLink,omitempty"`
	Parents       []string `json:"parents,omitempty"`
}

const uploadFields = "id,name,mimeType,size,webViewLink,thumbnailLink"

// UploadFile streams content into the given parent folder using a
// multipart/related upload (metadata part + media part). The body is piped,
// not buffered, so a 500 MB video never sits in memory.
func (c *Client) UploadFile(ctx context.Context, name, mimeType, parentID string, content io.Reader) (*File, error) {
	meta := map[string]interface{}{
		"name":    name,
		"parents": []string{parentID},
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)
	go func() {
		err := writeUploadParts(writer, metaJSON, mimeType, content)
		if closeErr := writer.Close(); err == nil {
			err = closeErr
		}
		pw.CloseWithError(err)
	}()

	params := url.Values{}
	params.Set("uploadType", "multipart")
	params.Set("fields", uploadFields)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadBase+"/files?"+params.Encode(), pr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "multipart/related; boundary="+writer.Boundary())
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	file := File{}
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return nil, err
	}
	return &file, nil
}

func writeUploadParts(writer *multipart.Writer, metaJSON []byte, mimeType string, content io.Reader) error {
	metaHeader := textproto.MIMEHeader{}
	metaHeader.Set("Content-Type", "application/json; charset=UTF-8")
	part, err := writer.CreatePart(metaHeader)
	if err != nil {
		return err
	}
	if _, err := part.Write(metaJSON); err != nil {
		return err
	}
	mediaHeader := textproto.MIMEHeader{}
	mediaHeader.Set("Content-Type", mimeType)
	part, err = writer.CreatePart(mediaHeader)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, content)
	return err
}

// Download fetches the file's bytes, forwarding the client's Range header
// verbatim when present. The caller owns the response (status 200 or 206)
// and must close its body.
func (c *Client) Download(ctx context.Context, fileID, rangeHeader string) (*http.Response, error) {
	params := url.Values{}
	params.Set("alt", "media")
	params.Set("supportsAllDrives", "true")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/files/"+url.PathEscape(fileID)+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if rangeHeader != "" {
		req.Header.Set("Range", rangeHeader)
	}
	return c.do(req)
}

// GetParents returns the file's current parent folder ids.
func (c *Client) GetParents(ctx context.Context, fileID string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/files/"+url.PathEscape(fileID)+"?fields=parents", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	file := File{}
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return nil, err
	}
	return file.Parents, nil
}

// MoveFile reparents the file into the destination folder, dropping every
// other current parent.
func (c *Client) MoveFile(ctx context.Context, fileID, destFolderID string) error {
	parents, err := c.GetParents(ctx, fileID)
	if err != nil {
		return err
	}
	already := false
	remove := make([]string, 0, len(parents))
	for _, p := range parents {
		if p == destFolderID {
			already = true
		} else {
			remove = append(remove, p)
		}
	}
	if already && len(remove) == 0 {
		return nil
	}
	params := url.Values{}
	if !already {
		params.Set("addParents", destFolderID)
	}
	if len(remove) > 0 {
		params.Set("removeParents", strings.Join(remove, ","))
	}
	params.Set("fields", "id,parents")
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.apiBase+"/files/"+url.PathEscape(fileID)+"?"+params.Encode(), strings.NewReader("{}"))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
