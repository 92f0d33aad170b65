package common

import (
	"net/url"
	"path/filepath"
	"strings"

	protocol "github.com/gluax-lang/lsp"
)

// FilePathToURI converts an absolute filesystem path into a file:// URI.
// Escaping is per path segment, so separators survive.
func FilePathToURI(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		// Windows drive paths need a leading slash: file:///C:/path
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String()
}

// ToRange converts the error's zero-based position into an LSP range
// covering the offending region. LSP positions are zero-based as well,
// so the coordinates map directly.
func (e *Error) ToRange() protocol.Range {
	width := e.Len
	if width < 1 {
		width = 1
	}
	start := e.Column - width
	if start < 0 {
		start = 0
	}
	return protocol.Range{
		Start: protocol.Position{Line: uint32(e.Line), Character: uint32(start)},
		End:   protocol.Position{Line: uint32(e.Line), Character: uint32(e.Column)},
	}
}

// ToDiagnostic converts the error into an LSP diagnostic.
func (e *Error) ToDiagnostic() protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	msg := e.Message
	if e.Help != "" {
		msg += "\nhelp: " + e.Help
	}
	return protocol.Diagnostic{
		Severity: &severity,
		Message:  msg,
		Range:    e.ToRange(),
	}
}
