package registry

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T) (*Server, *Registry, string) {
	t.Helper()
	reg, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	token, _, err := reg.CreateToken("alice", "ci")
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}
	return NewServer(reg), reg, token
}

func doJSON(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func publishBody(name, version string) publishRequest {
	return publishRequest{
		Name:     name,
		Version:  version,
		Manifest: json.RawMessage(fmt.Sprintf(`{"name":%q,"version":%q}`, name, version)),
		Tarball:  base64.StdEncoding.EncodeToString([]byte("tarball-" + version)),
	}
}

func TestRegistryInfo(t *testing.T) {
	s, _, _ := newTestServer(t)
	w := doJSON(t, s, "GET", "/", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var info registryInfo
	if err := json.Unmarshal(w.Body.Bytes(), &info); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if info.Name != "loft Package Registry" || info.UsersCount != 1 {
		t.Errorf("info = %+v", info)
	}
}

func TestPublishRequiresAuth(t *testing.T) {
	s, _, _ := newTestServer(t)
	w := doJSON(t, s, "POST", "/packages/publish", "", publishBody("http", "1.0.0"))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d", w.Code)
	}
	w = doJSON(t, s, "POST", "/packages/publish", "bogus", publishBody("http", "1.0.0"))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status with bad token = %d", w.Code)
	}
}

func TestPublishAndDownload(t *testing.T) {
	s, _, token := newTestServer(t)

	w := doJSON(t, s, "POST", "/packages/publish", token, publishBody("http", "1.0.0"))
	if w.Code != http.StatusOK {
		t.Fatalf("publish status = %d: %s", w.Code, w.Body)
	}

	w = doJSON(t, s, "GET", "/packages/http/1.0.0/download", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("download status = %d", w.Code)
	}
	if w.Body.String() != "tarball-1.0.0" {
		t.Errorf("tarball = %q", w.Body.String())
	}

	w = doJSON(t, s, "GET", "/packages/http/9.9.9/download", "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing version status = %d", w.Code)
	}
}

func TestListPackagesReportsLatestBySemver(t *testing.T) {
	s, _, token := newTestServer(t)
	// 0.10.0 published before 0.2.0; semver order must win over
	// publish order.
	for _, version := range []string{"0.10.0", "0.2.0"} {
		if w := doJSON(t, s, "POST", "/packages/publish", token, publishBody("json", version)); w.Code != http.StatusOK {
			t.Fatalf("publish %s status = %d", version, w.Code)
		}
	}

	w := doJSON(t, s, "GET", "/packages", "", nil)
	var list []PackageMetadata
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0].Version != "0.10.0" {
		t.Errorf("list = %+v", list)
	}
}

func TestGetPackageListsAllVersions(t *testing.T) {
	s, _, token := newTestServer(t)
	for _, version := range []string{"1.0.0", "1.1.0"} {
		doJSON(t, s, "POST", "/packages/publish", token, publishBody("math", version))
	}

	w := doJSON(t, s, "GET", "/packages/math", "", nil)
	var versions []PackageMetadata
	if err := json.Unmarshal(w.Body.Bytes(), &versions); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(versions) != 2 {
		t.Fatalf("versions = %+v", versions)
	}
	if versions[0].Owners[0] != "alice" {
		t.Errorf("owners = %v", versions[0].Owners)
	}

	if w := doJSON(t, s, "GET", "/packages/nope", "", nil); w.Code != http.StatusNotFound {
		t.Errorf("missing package status = %d", w.Code)
	}
}

func TestPublishValidation(t *testing.T) {
	s, _, token := newTestServer(t)

	if w := doJSON(t, s, "POST", "/packages/publish", token, publishBody("std", "1.0.0")); w.Code != http.StatusBadRequest {
		t.Errorf("reserved name status = %d", w.Code)
	}
	if w := doJSON(t, s, "POST", "/packages/publish", token, publishBody("web", "not-a-version")); w.Code != http.StatusBadRequest {
		t.Errorf("bad version status = %d", w.Code)
	}

	req := publishBody("web", "1.0.0")
	req.Tarball = "%%% not base64 %%%"
	if w := doJSON(t, s, "POST", "/packages/publish", token, req); w.Code != http.StatusBadRequest {
		t.Errorf("bad tarball status = %d", w.Code)
	}

	// Names become storage directories, so path syntax is rejected.
	for _, name := range []string{"../evil", "a/b", `a\b`} {
		if w := doJSON(t, s, "POST", "/packages/publish", token, publishBody(name, "1.0.0")); w.Code != http.StatusBadRequest {
			t.Errorf("name %q status = %d", name, w.Code)
		}
	}
}

func TestPublishDuplicateVersionConflicts(t *testing.T) {
	s, _, token := newTestServer(t)
	doJSON(t, s, "POST", "/packages/publish", token, publishBody("dup", "1.0.0"))
	if w := doJSON(t, s, "POST", "/packages/publish", token, publishBody("dup", "1.0.0")); w.Code != http.StatusConflict {
		t.Errorf("status = %d", w.Code)
	}
}

func TestPublishOwnerCheck(t *testing.T) {
	s, reg, token := newTestServer(t)
	doJSON(t, s, "POST", "/packages/publish", token, publishBody("owned", "1.0.0"))

	other, _, err := reg.CreateToken("mallory", "cli")
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}
	if w := doJSON(t, s, "POST", "/packages/publish", other, publishBody("owned", "1.1.0")); w.Code != http.StatusForbidden {
		t.Errorf("status = %d", w.Code)
	}
}

func TestTokenLifecycle(t *testing.T) {
	s, _, token := newTestServer(t)

	w := doJSON(t, s, "POST", "/tokens", token, createTokenRequest{Name: "laptop"})
	if w.Code != http.StatusOK {
		t.Fatalf("create status = %d", w.Code)
	}
	var created createTokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Token == "" || created.Name != "laptop" {
		t.Errorf("created = %+v", created)
	}

	// The fresh token authenticates.
	w = doJSON(t, s, "GET", "/tokens", created.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var tokens []APIToken
	if err := json.Unmarshal(w.Body.Bytes(), &tokens); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("tokens = %+v", tokens)
	}

	var laptopID string
	for _, tok := range tokens {
		if tok.Name == "laptop" {
			laptopID = tok.ID
		}
	}
	if w := doJSON(t, s, "DELETE", "/tokens/"+laptopID, token, nil); w.Code != http.StatusOK {
		t.Errorf("revoke status = %d", w.Code)
	}
	if w := doJSON(t, s, "GET", "/tokens", created.Token, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("revoked token status = %d", w.Code)
	}
}

func TestRevokeRequiresOwnership(t *testing.T) {
	s, reg, token := newTestServer(t)
	_, created, err := reg.CreateToken("bob", "cli")
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}
	if w := doJSON(t, s, "DELETE", "/tokens/"+created.ID, token, nil); w.Code != http.StatusNotFound {
		t.Errorf("status = %d", w.Code)
	}
}

func TestStateSurvivesReload(t *testing.T) {
	dir := t.TempDir()
	reg, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	token, _, err := reg.CreateToken("alice", "ci")
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}
	s := NewServer(reg)
	if w := doJSON(t, s, "POST", "/packages/publish", token, publishBody("keep", "2.0.0")); w.Code != http.StatusOK {
		t.Fatalf("publish status = %d", w.Code)
	}

	reloaded, err := Open(dir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reloaded.HasTokens() {
		t.Error("tokens not reloaded")
	}
	tarball, ok := reloaded.Tarball("keep", "2.0.0")
	if !ok || string(tarball) != "tarball-2.0.0" {
		t.Errorf("tarball = %q ok=%v", tarball, ok)
	}
	latest := reloaded.Latest()
	if len(latest) != 1 || latest[0].Name != "keep" {
		t.Errorf("latest = %+v", latest)
	}
}
