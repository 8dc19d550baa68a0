// Package apitest provides an in-memory storage backend speaking the REST
// surface consumed by the api package, for use in tests.
package apitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"

	"github.com/gorilla/mux"

	"bkt/internal/models"
)

// Server is a fake storage backend
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	buckets  map[string]map[string]*object
	failWith int
	requests int
}

type object struct {
	file    models.File
	content []byte
}

// NewServer starts a fake backend seeded with the given buckets
func NewServer(buckets ...string) *Server {
	s := &Server{buckets: make(map[string]map[string]*object)}
	for _, b := range buckets {
		s.buckets[b] = make(map[string]*object)
	}

	r := mux.NewRouter()
	r.Use(s.middleware)
	r.HandleFunc("/buckets", s.handleListBuckets).Methods(http.MethodGet)
	r.HandleFunc("/buckets", s.handleCreateBucket).Methods(http.MethodPost)
	r.HandleFunc("/files/{bucket}", s.handleListFiles).Methods(http.MethodGet)
	r.HandleFunc("/files/{bucket}/upload", s.handleUpload).Methods(http.MethodPost)
	r.HandleFunc("/files/{bucket}/{file}", s.handleDownload).Methods(http.MethodGet)
	r.HandleFunc("/files/{bucket}/{file}", s.handleDelete).Methods(http.MethodDelete)

	s.Server = httptest.NewServer(r)
	return s
}

// Put stores a file directly, bypassing the HTTP surface
func (s *Server) Put(bucket, name string, content []byte, tags ...string) models.File {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.buckets[bucket] == nil {
		s.buckets[bucket] = make(map[string]*object)
	}
	f := models.File{
		Name: name,
		Size: int64(len(content)),
		URL:  s.URL + "/files/" + bucket + "/" + name,
		Tags: tags,
	}
	s.buckets[bucket][name] = &object{file: f, content: content}
	return f
}

// FailWith makes every following request answer with the given status; 0 restores normal behaviour
func (s *Server) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = status
}

// Requests returns how many requests the server has seen
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests++
		status := s.failWith
		s.mu.Unlock()

		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleListBuckets(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	buckets := make([]models.Bucket, 0, len(s.buckets))
	for name := range s.buckets {
		buckets = append(buckets, models.Bucket{Name: name})
	}
	s.mu.Unlock()

	sort.Slice(buckets, func(i, j int) bool { return buckets[i].Name < buckets[j].Name })
	writeJSON(w, http.StatusOK, buckets)
}

func (s *Server) handleCreateBucket(w http.ResponseWriter, r *http.Request) {
	var req models.Bucket
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "Bucket name is required", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.buckets[req.Name]; ok {
		http.Error(w, "Bucket already exists", http.StatusConflict)
		return
	}
	s.buckets[req.Name] = make(map[string]*object)
	writeJSON(w, http.StatusCreated, req)
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	objects, ok := s.buckets[mux.Vars(r)["bucket"]]
	files := make([]models.File, 0, len(objects))
	for _, o := range objects {
		files = append(files, o.file)
	}
	s.mu.Unlock()

	if !ok {
		http.Error(w, "Bucket not found", http.StatusNotFound)
		return
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	writeJSON(w, http.StatusOK, files)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	bucket := mux.Vars(r)["bucket"]

	s.mu.Lock()
	_, ok := s.buckets[bucket]
	s.mu.Unlock()
	if !ok {
		http.Error(w, "Bucket not found", http.StatusNotFound)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "Failed to parse upload: "+err.Error(), http.StatusBadRequest)
		return
	}
	part, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File is required", http.StatusBadRequest)
		return
	}
	defer part.Close()

	content, err := io.ReadAll(part)
	if err != nil {
		http.Error(w, "Failed to read upload", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, s.Put(bucket, header.Filename, content))
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	o, ok := s.lookup(r)
	if !ok {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(o.content)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if _, ok := s.lookup(r); !ok {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	s.mu.Lock()
	delete(s.buckets[vars["bucket"]], vars["file"])
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"message": "File deleted"})
}

func (s *Server) lookup(r *http.Request) (*object, bool) {
	vars := mux.Vars(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.buckets[vars["bucket"]][vars["file"]]
	return o, ok
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
