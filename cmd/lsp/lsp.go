// Package lsp implements the stdio language server.
package lsp

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	protocol "github.com/gluax-lang/lsp"

	"github.com/loft-lang/loft/common"
	"github.com/loft-lang/loft/frontend/parser"
)

func RunLSP() error {
	return NewHandler().Serve(context.Background())
}

type Handler struct {
	*protocol.Server
	mu        sync.Mutex
	fileCache map[string]string
	workspace string
}

func NewHandler() *Handler {
	h := &Handler{
		fileCache: make(map[string]string),
	}
	h.Server = protocol.NewServer(os.Stdin, os.Stdout, h)
	return h
}

func (h *Handler) Initialize(p *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	if p.WorkspaceFolders == nil || len(*p.WorkspaceFolders) == 0 {
		return nil, fmt.Errorf("no workspace folder detected")
	}
	workspaceFolders := *p.WorkspaceFolders
	root, err := uriToFilePath(workspaceFolders[0].URI)
	if err != nil {
		return nil, fmt.Errorf("invalid workspace folder: %w", err)
	}
	log.Printf("root: %s", root)
	h.workspace = root
	return &protocol.InitializeResult{Capabilities: protocol.ServerCapabilities{
		HoverProvider: protocol.NewHoverProviderBool(true),
		TextDocumentSync: protocol.NewTextDocumentSyncOptions(protocol.TextDocumentSyncOptions{
			OpenClose: true,
			Change:    protocol.TextDocumentSyncKindFull,
			Save: &protocol.SaveOptions{
				IncludeText: true,
			},
		}),
	}}, nil
}

func (h *Handler) Initialized() error {
	log.Println("Initialized")
	for uri, diags := range workspaceDiagnostics(h.workspace) {
		h.PublishDiagnostics(uri, diags)
	}
	return nil
}

// workspaceDiagnostics parses every source file in the project root and
// its src directory, keyed by file URI. Problems surface before the
// files are opened in the editor.
func workspaceDiagnostics(root string) map[string][]protocol.Diagnostic {
	result := make(map[string][]protocol.Diagnostic)
	for _, dir := range []string{root, filepath.Join(root, "src")} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != ".lf" {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			content, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			_, errs := parser.ParseRecoverable(path, string(content))
			diags := make([]protocol.Diagnostic, 0, len(errs))
			for _, e := range errs {
				diags = append(diags, e.ToDiagnostic())
			}
			result[common.FilePathToURI(path)] = diags
		}
	}
	return result
}

func (h *Handler) DidOpen(p *protocol.DidOpenTextDocumentParams) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	uri := p.TextDocument.URI
	text := p.TextDocument.Text
	h.fileCache[uri] = text
	h.PublishDiagnostics(uri, diagnosticsFor(uri, text))
	return nil
}

func (h *Handler) DidChange(p *protocol.DidChangeTextDocumentParams) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	uri := p.TextDocument.URI
	text := p.ContentChanges[0].Text
	h.fileCache[uri] = text
	h.PublishDiagnostics(uri, diagnosticsFor(uri, text))
	return nil
}

func (h *Handler) DidClose(p *protocol.DidCloseTextDocumentParams) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	uri := p.TextDocument.URI
	delete(h.fileCache, uri)
	h.PublishDiagnostics(uri, nil)
	return nil
}

func (h *Handler) DidSave(p *protocol.DidSaveTextDocumentParams) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	uri := p.TextDocument.URI
	text := *p.Text
	h.fileCache[uri] = text
	h.PublishDiagnostics(uri, diagnosticsFor(uri, text))
	return nil
}

// InlayHint needs node positions the syntax tree does not carry, so it
// answers empty.
func (h *Handler) InlayHint(p *protocol.InlayHintParams) ([]protocol.InlayHint, error) {
	return nil, nil
}

// diagnosticsFor reparses the document and maps every collected error
// to a positioned diagnostic.
func diagnosticsFor(uri, text string) []protocol.Diagnostic {
	path, err := uriToFilePath(uri)
	if err != nil {
		path = uri
	}
	_, errs := parser.ParseRecoverable(path, text)
	diags := make([]protocol.Diagnostic, 0, len(errs))
	for _, e := range errs {
		diags = append(diags, e.ToDiagnostic())
	}
	return diags
}

// uriToFilePath converts a file:// URI into an absolute filesystem path.
func uriToFilePath(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("invalid URI: %w", err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("unsupported scheme %q (must be file)", u.Scheme)
	}

	p, err := url.PathUnescape(u.Path)
	if err != nil {
		return "", fmt.Errorf("cannot unescape path: %w", err)
	}

	// On Windows, strip the leading slash before the drive letter.
	if runtime.GOOS == "windows" {
		if strings.HasPrefix(p, "/") && len(p) >= 3 && p[2] == ':' {
			p = p[1:]
		}
	}

	return filepath.FromSlash(p), nil
}
