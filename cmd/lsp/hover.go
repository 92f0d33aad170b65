package lsp

import (
	"fmt"
	"strings"
	"unicode"

	protocol "github.com/gluax-lang/lsp"

	"github.com/loft-lang/loft/docgen"
)

func (h *Handler) Hover(p *protocol.HoverParams) (*protocol.Hover, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	uri := p.TextDocument.URI
	text := h.fileCache[uri]
	if text == "" {
		return nil, nil
	}

	content := hoverContent(text, p.Position)
	if content == "" {
		return nil, nil
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  "markdown",
			Value: content,
		},
	}, nil
}

// hoverContent finds the identifier under the cursor and, when it
// names a documented declaration in the file, renders its signature
// and doc text.
func hoverContent(text string, pos protocol.Position) string {
	word := wordAt(text, pos)
	if word == "" {
		return ""
	}

	item := lookupItem(text, word)
	if item == nil {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "```loft\n%s\n```\n", item.Signature)
	if item.Doc != "" {
		sb.WriteString("\n")
		sb.WriteString(item.Doc)
		sb.WriteString("\n")
	}
	return sb.String()
}

// lookupItem extracts declarations from the document and returns the
// one matching name, if any.
func lookupItem(text, name string) *docgen.Item {
	g := docgen.NewGenerator()
	if err := g.ParseSource("hover.lf", text); err != nil {
		return nil
	}
	for _, item := range g.Items() {
		if item.Name == name {
			return item
		}
	}
	return nil
}

// wordAt returns the identifier covering the given position, or ""
// when the cursor is not on one.
func wordAt(text string, pos protocol.Position) string {
	lines := strings.Split(text, "\n")
	if int(pos.Line) >= len(lines) {
		return ""
	}
	runes := []rune(lines[pos.Line])
	col := int(pos.Character)
	if col > len(runes) {
		return ""
	}
	// A cursor just past the last character of a word still hovers it.
	if col == len(runes) || !isWordRune(runes[col]) {
		if col == 0 || !isWordRune(runes[col-1]) {
			return ""
		}
		col--
	}

	start := col
	for start > 0 && isWordRune(runes[start-1]) {
		start--
	}
	end := col
	for end < len(runes) && isWordRune(runes[end]) {
		end++
	}
	return string(runes[start:end])
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
