// Package registry implements the package registry service: versioned
// package storage with bearer-token publishing, backed by a directory
// on disk.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
)

// PackageMetadata describes one published package version.
type PackageMetadata struct {
	Name        string          `json:"name"`
	Version     string          `json:"version"`
	Description string          `json:"description,omitempty"`
	Manifest    json.RawMessage `json:"manifest"`
	Repository  string          `json:"repository,omitempty"`
	Authors     []string        `json:"authors"`
	License     string          `json:"license,omitempty"`
	Owners      []string        `json:"owners"`
}

// Package pairs metadata with the uploaded tarball.
type Package struct {
	Metadata PackageMetadata
	Tarball  []byte
}

type User struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// APIToken authorizes publishing. The token string itself is the map
// key on disk and is never listed back to clients.
type APIToken struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Username   string     `json:"username"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
}

// Registry holds the in-memory state mirrored to the storage
// directory.
type Registry struct {
	mu       sync.RWMutex
	dir      string
	packages map[string][]*Package
	users    map[string]User
	tokens   map[string]APIToken
}

// Open loads existing state from dir, creating it if needed.
func Open(dir string) (*Registry, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	r := &Registry{
		dir:      dir,
		packages: make(map[string][]*Package),
		users:    make(map[string]User),
		tokens:   make(map[string]APIToken),
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

// load reads every <pkg>/<version>.json plus its tarball, then the
// users and tokens files. Unreadable entries are skipped.
func (r *Registry) load() error {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		versionEntries, err := os.ReadDir(filepath.Join(r.dir, name))
		if err != nil {
			continue
		}
		for _, ve := range versionEntries {
			if filepath.Ext(ve.Name()) != ".json" {
				continue
			}
			raw, err := os.ReadFile(filepath.Join(r.dir, name, ve.Name()))
			if err != nil {
				continue
			}
			var meta PackageMetadata
			if err := json.Unmarshal(raw, &meta); err != nil {
				continue
			}
			tarball, err := os.ReadFile(filepath.Join(r.dir, name, meta.Version+".tar.gz"))
			if err != nil {
				continue
			}
			r.packages[name] = append(r.packages[name], &Package{Metadata: meta, Tarball: tarball})
		}
		sortVersions(r.packages[name])
	}

	if raw, err := os.ReadFile(filepath.Join(r.dir, "users.json")); err == nil {
		if err := json.Unmarshal(raw, &r.users); err != nil {
			return fmt.Errorf("corrupt users.json: %w", err)
		}
	}
	if raw, err := os.ReadFile(filepath.Join(r.dir, "tokens.json")); err == nil {
		if err := json.Unmarshal(raw, &r.tokens); err != nil {
			return fmt.Errorf("corrupt tokens.json: %w", err)
		}
	}
	return nil
}

// sortVersions orders a version list ascending so the last element is
// the latest release. Unparsable versions sort first.
func sortVersions(pkgs []*Package) {
	sort.SliceStable(pkgs, func(i, j int) bool {
		vi, erri := semver.NewVersion(pkgs[i].Metadata.Version)
		vj, errj := semver.NewVersion(pkgs[j].Metadata.Version)
		if erri != nil || errj != nil {
			return erri != nil && errj == nil
		}
		return vi.LessThan(vj)
	})
}

func (r *Registry) saveUsers() error {
	raw, err := json.MarshalIndent(r.users, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(r.dir, "users.json"), raw, 0o644)
}

func (r *Registry) saveTokens() error {
	raw, err := json.MarshalIndent(r.tokens, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(r.dir, "tokens.json"), raw, 0o600)
}

// CreateToken mints a bearer token for username, registering the user
// on first use. It returns the token string, which is shown once and
// stored as the lookup key.
func (r *Registry) CreateToken(username, name string) (string, APIToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[username]; !ok {
		r.users[username] = User{Username: username, CreatedAt: time.Now().UTC()}
		if err := r.saveUsers(); err != nil {
			return "", APIToken{}, err
		}
	}

	token := uuid.NewString()
	apiToken := APIToken{
		ID:        uuid.NewString(),
		Name:      name,
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}
	r.tokens[token] = apiToken
	if err := r.saveTokens(); err != nil {
		return "", APIToken{}, err
	}
	return token, apiToken, nil
}

// HasTokens reports whether any token exists yet. Used at startup to
// decide whether a bootstrap token is needed.
func (r *Registry) HasTokens() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tokens) > 0
}

// lookupToken resolves a bearer token to its owner.
func (r *Registry) lookupToken(token string) (APIToken, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tokens[token]
	return t, ok
}

// Tokens lists the tokens owned by username.
func (r *Registry) Tokens(username string) []APIToken {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []APIToken
	for _, t := range r.tokens {
		if t.Username == username {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// RevokeToken deletes the token with the given id if username owns it.
func (r *Registry) RevokeToken(username, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, t := range r.tokens {
		if t.ID == id && t.Username == username {
			delete(r.tokens, key)
			_ = r.saveTokens()
			return true
		}
	}
	return false
}

// Publish validates and stores a new package version.
func (r *Registry) Publish(meta PackageMetadata, tarball []byte) error {
	if meta.Name == "" {
		return errBadRequest("package name is required")
	}
	// The name becomes a directory under the storage root.
	if strings.ContainsAny(meta.Name, `/\`) || strings.Contains(meta.Name, "..") {
		return errBadRequest(fmt.Sprintf("invalid package name %q", meta.Name))
	}
	if meta.Name == "std" {
		return errBadRequest(`package name "std" is reserved`)
	}
	if _, err := semver.NewVersion(meta.Version); err != nil {
		return errBadRequest(fmt.Sprintf("invalid version %q: %v", meta.Version, err))
	}
	if len(meta.Owners) == 0 {
		return errBadRequest("package owner is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	versions := r.packages[meta.Name]
	if len(versions) > 0 {
		latest := versions[len(versions)-1]
		if !contains(latest.Metadata.Owners, meta.Owners[0]) {
			return errForbidden(fmt.Sprintf("%s is not an owner of %s", meta.Owners[0], meta.Name))
		}
		for _, pkg := range versions {
			if pkg.Metadata.Version == meta.Version {
				return errConflict(fmt.Sprintf("%s@%s already published", meta.Name, meta.Version))
			}
		}
	}

	pkgDir := filepath.Join(r.dir, meta.Name)
	if err := os.MkdirAll(pkgDir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(pkgDir, meta.Version+".tar.gz"), tarball, 0o644); err != nil {
		return err
	}
	metaRaw, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(pkgDir, meta.Version+".json"), metaRaw, 0o644); err != nil {
		return err
	}

	r.packages[meta.Name] = append(versions, &Package{Metadata: meta, Tarball: tarball})
	sortVersions(r.packages[meta.Name])
	return nil
}

// Latest returns the newest version of each package, sorted by name.
func (r *Registry) Latest() []PackageMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]PackageMetadata, 0, len(r.packages))
	for _, versions := range r.packages {
		if len(versions) > 0 {
			out = append(out, versions[len(versions)-1].Metadata)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Versions returns every published version of name, oldest first.
func (r *Registry) Versions(name string) []PackageMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	versions := r.packages[name]
	out := make([]PackageMetadata, 0, len(versions))
	for _, pkg := range versions {
		out = append(out, pkg.Metadata)
	}
	return out
}

// Tarball returns the stored archive for an exact version.
func (r *Registry) Tarball(name, version string) ([]byte, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, pkg := range r.packages[name] {
		if pkg.Metadata.Version == version {
			return pkg.Tarball, true
		}
	}
	return nil, false
}

// Counts reports how many packages and users the registry knows.
func (r *Registry) Counts() (packages, users int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.packages), len(r.users)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// requestError carries an HTTP status with a message.
type requestError struct {
	status  int
	message string
}

func (e *requestError) Error() string { return e.message }

func errBadRequest(msg string) error { return &requestError{status: 400, message: msg} }
func errForbidden(msg string) error  { return &requestError{status: 403, message: msg} }
func errConflict(msg string) error   { return &requestError{status: 409, message: msg} }
