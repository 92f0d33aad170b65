package registry

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
)

const registryVersion = "0.1.0"

// Server exposes a Registry over HTTP.
type Server struct {
	registry *Registry
	mux      *http.ServeMux
}

func NewServer(registry *Registry) *Server {
	s := &Server{
		registry: registry,
		mux:      http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /{$}", s.handleInfo)
	s.mux.HandleFunc("GET /packages", s.handleListPackages)
	s.mux.HandleFunc("GET /packages/{name}", s.handleGetPackage)
	s.mux.HandleFunc("GET /packages/{name}/{version}/download", s.handleDownload)
	s.mux.HandleFunc("POST /packages/publish", s.handlePublish)
	s.mux.HandleFunc("POST /tokens", s.handleCreateToken)
	s.mux.HandleFunc("GET /tokens", s.handleListTokens)
	s.mux.HandleFunc("DELETE /tokens/{id}", s.handleRevokeToken)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe runs the registry on addr until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	log.Printf("loft package registry listening on %s", addr)
	return http.ListenAndServe(addr, s)
}

type registryInfo struct {
	Name          string `json:"name"`
	Version       string `json:"version"`
	PackagesCount int    `json:"packages_count"`
	UsersCount    int    `json:"users_count"`
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	packages, users := s.registry.Counts()
	writeJSON(w, http.StatusOK, registryInfo{
		Name:          "loft Package Registry",
		Version:       registryVersion,
		PackagesCount: packages,
		UsersCount:    users,
	})
}

func (s *Server) handleListPackages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.Latest())
}

func (s *Server) handleGetPackage(w http.ResponseWriter, r *http.Request) {
	versions := s.registry.Versions(r.PathValue("name"))
	if len(versions) == 0 {
		http.Error(w, "package not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, versions)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	tarball, ok := s.registry.Tarball(r.PathValue("name"), r.PathValue("version"))
	if !ok {
		http.Error(w, "package version not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/gzip")
	w.WriteHeader(http.StatusOK)
	w.Write(tarball)
}

type publishRequest struct {
	Name        string          `json:"name"`
	Version     string          `json:"version"`
	Description string          `json:"description,omitempty"`
	Manifest    json.RawMessage `json:"manifest"`
	Tarball     string          `json:"tarball"`
	Repository  string          `json:"repository,omitempty"`
	Authors     []string        `json:"authors,omitempty"`
	License     string          `json:"license,omitempty"`
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	token, ok := s.authenticate(w, r)
	if !ok {
		return
	}

	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	tarball, err := base64.StdEncoding.DecodeString(req.Tarball)
	if err != nil {
		http.Error(w, "tarball is not valid base64", http.StatusBadRequest)
		return
	}

	meta := PackageMetadata{
		Name:        req.Name,
		Version:     req.Version,
		Description: req.Description,
		Manifest:    req.Manifest,
		Repository:  req.Repository,
		Authors:     req.Authors,
		License:     req.License,
		Owners:      []string{token.Username},
	}
	if err := s.registry.Publish(meta, tarball); err != nil {
		writeError(w, err)
		return
	}
	log.Printf("published %s@%s by %s", meta.Name, meta.Version, token.Username)
	writeJSON(w, http.StatusOK, meta)
}

type createTokenRequest struct {
	Name string `json:"name"`
}

type createTokenResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
}

func (s *Server) handleCreateToken(w http.ResponseWriter, r *http.Request) {
	token, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	var req createTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "token name is required", http.StatusBadRequest)
		return
	}
	value, created, err := s.registry.CreateToken(token.Username, req.Name)
	if err != nil {
		http.Error(w, "failed to save token", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, createTokenResponse{Token: value, Name: created.Name})
}

func (s *Server) handleListTokens(w http.ResponseWriter, r *http.Request) {
	token, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	tokens := s.registry.Tokens(token.Username)
	if tokens == nil {
		tokens = []APIToken{}
	}
	writeJSON(w, http.StatusOK, tokens)
}

func (s *Server) handleRevokeToken(w http.ResponseWriter, r *http.Request) {
	token, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	if !s.registry.RevokeToken(token.Username, r.PathValue("id")) {
		http.Error(w, "token not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// authenticate resolves the Authorization header to a known token,
// writing 401 on failure.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (APIToken, bool) {
	header := r.Header.Get("Authorization")
	value, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		http.Error(w, "missing bearer token", http.StatusUnauthorized)
		return APIToken{}, false
	}
	token, ok := s.registry.lookupToken(value)
	if !ok {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return APIToken{}, false
	}
	return token, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// writeError maps request errors to their status and everything else
// to a 500.
func writeError(w http.ResponseWriter, err error) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		http.Error(w, reqErr.message, reqErr.status)
		return
	}
	http.Error(w, "internal error", http.StatusInternalServerError)
}
