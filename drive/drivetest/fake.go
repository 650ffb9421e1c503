// Package drivetest provides an in-memory stand-in for the Drive v3 API,
// good enough for folder provisioning, multipart uploads, ranged downloads
// and parent reassignment.
package drivetest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

type Folder struct {
	ID      string
	Name    string
	Parent  string
	Trashed bool
}

type File struct {
	ID       string
	Name     string
	MimeType string
	Parents  []string
	Content  []byte
}

type Server struct {
	HTTP *httptest.Server

	mu            sync.Mutex
	nextID        int
	Folders       map[string]*Folder
	Files         map[string]*File
	ListCalls     int
	CreateCalls   int
	LastListQuery string
}

func New() *Server {
	s := &Server{
		Folders: map[string]*Folder{},
		Files:   map[string]*File{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/upload/drive/v3/files", s.handleUpload)
	mux.HandleFunc("/drive/v3/files", s.handleCollection)
	mux.HandleFunc("/drive/v3/files/", s.handleItem)
	s.HTTP = httptest.NewServer(mux)
	return s
}

func (s *Server) Close() {
	s.HTTP.Close()
}

// APIBase and UploadBase are the endpoint roots to point a drive.Client at.
func (s *Server) APIBase() string {
	return s.HTTP.URL + "/drive/v3"
}

func (s *Server) UploadBase() string {
	return s.HTTP.URL + "/upload/drive/v3"
}

// AddFolder seeds a folder and returns its id.
func (s *Server) AddFolder(name, parent string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if parent == "" {
		parent = "root"
	}
	return s.addFolderLocked(name, parent)
}

// AddFile seeds a file and returns its id.
func (s *Server) AddFile(name, mimeType, parent string, content []byte) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := fmt.Sprintf("file-%d", s.nextID)
	s.Files[id] = &File{
		ID:       id,
		Name:     name,
		MimeType: mimeType,
		Parents:  []string{parent},
		Content:  content,
	}
	return id
}

// FolderByName finds a folder id by name, "" when absent.
func (s *Server) FolderByName(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, f := range s.Folders {
		if f.Name == name {
			return id
		}
	}
	return ""
}

func (s *Server) addFolderLocked(name, parent string) string {
	s.nextID++
	id := fmt.Sprintf("folder-%d", s.nextID)
	s.Folders[id] = &Folder{ID: id, Name: name, Parent: parent}
	return id
}

var (
	nameRe   = regexp.MustCompile(`name = '((?:[^'\\]|\\.)*)'`)
	parentRe = regexp.MustCompile(`'([^']+)' in parents`)
)

func unescapeQuery(v string) string {
	v = strings.ReplaceAll(v, `\'`, `'`)
	return strings.ReplaceAll(v, `\\`, `\`)
}

func (s *Server) handleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleList(w, r)
	case http.MethodPost:
		s.handleCreateFolder(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ListCalls++
	q := r.URL.Query().Get("q")
	s.LastListQuery = q
	name := ""
	if m := nameRe.FindStringSubmatch(q); m != nil {
		name = unescapeQuery(m[1])
	}
	parent := "root"
	if m := parentRe.FindStringSubmatch(q); m != nil {
		parent = m[1]
	}
	type entry struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	found := []entry{}
	for id, f := range s.Folders {
		if f.Trashed || f.Name != name || f.Parent != parent {
			continue
		}
		found = append(found, entry{ID: id, Name: f.Name})
	}
	writeJSON(w, map[string]interface{}{"files": found})
}

func (s *Server) handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	var meta struct {
		Name     string   `json:"name"`
		MimeType string   `json:"mimeType"`
		Parents  []string `json:"parents"`
	}
	if err := json.NewDecoder(r.Body).Decode(&meta); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CreateCalls++
	parent := "root"
	if len(meta.Parents) > 0 {
		parent = meta.Parents[0]
	}
	id := s.addFolderLocked(meta.Name, parent)
	writeJSON(w, map[string]string{"id": id})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	_, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	reader := multipart.NewReader(r.Body, params["boundary"])
	metaPart, err := reader.NextPart()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var meta struct {
		Name    string   `json:"name"`
		Parents []string `json:"parents"`
	}
	if err := json.NewDecoder(metaPart).Decode(&meta); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	mediaPart, err := reader.NextPart()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	content, err := io.ReadAll(mediaPart)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.nextID++
	id := fmt.Sprintf("file-%d", s.nextID)
	s.Files[id] = &File{
		ID:       id,
		Name:     meta.Name,
		MimeType: mediaPart.Header.Get("Content-Type"),
		Parents:  meta.Parents,
		Content:  content,
	}
	file := s.Files[id]
	s.mu.Unlock()
	writeJSON(w, map[string]string{
		"id":            file.ID,
		"name":          file.Name,
		"mimeType":      file.MimeType,
		"size":          strconv.Itoa(len(file.Content)),
		"webViewLink":   "https://drive.example.com/file/d/" + file.ID + "/view",
		"thumbnailLink": "https://thumbs.example.com/" + file.ID,
	})
}

func (s *Server) handleItem(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/drive/v3/files/")
	s.mu.Lock()
	file, ok := s.Files[id]
	s.mu.Unlock()
	if !ok {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	switch r.Method {
	case http.MethodGet:
		if r.URL.Query().Get("alt") == "media" {
			w.Header().Set("Content-Type", file.MimeType)
			http.ServeContent(w, r, file.Name, time.Time{}, bytes.NewReader(file.Content))
			return
		}
		writeJSON(w, map[string]interface{}{"id": file.ID, "parents": file.Parents})
	case http.MethodPatch:
		add := r.URL.Query().Get("addParents")
		remove := map[string]bool{}
		for _, p := range strings.Split(r.URL.Query().Get("removeParents"), ",") {
			if p != "" {
				remove[p] = true
			}
		}
		s.mu.Lock()
		parents := []string{}
		for _, p := range file.Parents {
			if !remove[p] {
				parents = append(parents, p)
			}
		}
		if add != "" {
			parents = append(parents, add)
		}
		file.Parents = parents
		s.mu.Unlock()
		writeJSON(w, map[string]interface{}{"id": file.ID, "parents": file.Parents})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
