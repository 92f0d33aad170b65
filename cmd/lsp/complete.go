package lsp

import (
	protocol "github.com/gluax-lang/lsp"

	"github.com/loft-lang/loft/docgen"
)

func (h *Handler) Complete(p *protocol.CompletionParams) (*protocol.CompletionList, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	uri := p.TextDocument.URI
	text := h.fileCache[uri]
	if text == "" {
		return nil, nil
	}

	return &protocol.CompletionList{
		IsIncomplete: false,
		Items:        completionItems(text),
	}, nil
}

// completionItems offers every declaration in the document. Functions
// insert with call parens.
func completionItems(text string) []protocol.CompletionItem {
	g := docgen.NewGenerator()
	if err := g.ParseSource("complete.lf", text); err != nil {
		return nil
	}

	var list []protocol.CompletionItem
	for _, item := range g.Items() {
		kind := protocol.CompletionItemKindVariable
		detail := item.Signature
		ci := protocol.CompletionItem{
			Label:  item.Name,
			Kind:   &kind,
			Detail: &detail,
		}
		if item.IsFunction() {
			kind = protocol.CompletionItemKindMethod
			insert := item.Name + "()"
			ci.InsertText = &insert
		}
		list = append(list, ci)
	}
	return list
}
