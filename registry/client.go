package registry

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client talks to a registry server over HTTP. Token is attached as a
// bearer credential when set; read-only calls work without one.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		HTTPClient: http.DefaultClient,
	}
}

// Versions returns every published version of a package, oldest first.
func (c *Client) Versions(name string) ([]PackageMetadata, error) {
	resp, err := c.do("GET", "/packages/"+name, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("package %q not found in registry", name)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, responseError(resp)
	}

	var versions []PackageMetadata
	if err := json.NewDecoder(resp.Body).Decode(&versions); err != nil {
		return nil, fmt.Errorf("invalid registry response: %w", err)
	}
	return versions, nil
}

// Download fetches the tarball for one published version.
func (c *Client) Download(name, version string) ([]byte, error) {
	resp, err := c.do("GET", "/packages/"+name+"/"+version+"/download", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, responseError(resp)
	}
	return io.ReadAll(resp.Body)
}

// Publish uploads a package version. The tarball travels
// base64-encoded inside the JSON request body.
func (c *Client) Publish(meta PackageMetadata, tarball []byte) error {
	req := publishRequest{
		Name:        meta.Name,
		Version:     meta.Version,
		Description: meta.Description,
		Manifest:    meta.Manifest,
		Tarball:     base64.StdEncoding.EncodeToString(tarball),
		Repository:  meta.Repository,
		Authors:     meta.Authors,
		License:     meta.License,
	}
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}

	resp, err := c.do("POST", "/packages/publish", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return responseError(resp)
	}
	return nil
}

func (c *Client) do(method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequest(method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot reach registry at %s: %w", c.BaseURL, err)
	}
	return resp, nil
}

func responseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Errorf("registry returned %s", resp.Status)
	}
	return fmt.Errorf("registry returned %s: %s", resp.Status, msg)
}
