package docgen

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

type page struct {
	Package  string
	Sections []section
}

type section struct {
	Title string
	Items []renderedItem
}

type renderedItem struct {
	*Item
	// SignatureHTML carries anchor links to other documented items, so
	// it bypasses template escaping.
	SignatureHTML template.HTML
	DocLines      []string
}

var pageTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Package}} - loft Documentation</title>
    <link rel="stylesheet" href="style.css">
</head>
<body>
    <h1>{{.Package}} Documentation</h1>
    <div class="container">
{{- range .Sections}}
        <h2>{{.Title}}</h2>
{{- range .Items}}
        <div class="doc-item">
            <h3 id="{{.Name}}">{{.Name}}</h3>
{{- if .SignatureHTML}}
            <pre class="signature"><code>{{.SignatureHTML}}</code></pre>
{{- end}}
{{- if .DocLines}}
            <div class="description">
{{- range .DocLines}}
                <p>{{.}}</p>
{{- end}}
            </div>
{{- end}}
{{- if .Params}}
            <h4>Parameters</h4>
            <ul class="parameters">
{{- range .Params}}
                <li><code>{{.Name}}</code>: <code>{{.Type}}</code></li>
{{- end}}
            </ul>
{{- end}}
{{- if .IsFunction}}
            <p><strong>Returns:</strong> <code>{{.ReturnType}}</code></p>
{{- if .IsExported}}
            <p class="exported">&#10003; Exported (teach)</p>
{{- end}}
{{- end}}
{{- if .ImplementedTraits}}
            <h4>Implemented Traits</h4>
            <ul class="traits">
{{- range .ImplementedTraits}}
                <li><a href="#{{.}}">{{.}}</a></li>
{{- end}}
            </ul>
{{- end}}
{{- if .Fields}}
            <h4>Fields</h4>
            <ul class="fields">
{{- range .Fields}}
                <li><code>{{.Name}}</code>: <code>{{.Type}}</code></li>
{{- end}}
            </ul>
{{- end}}
{{- if .Variants}}
            <h4>Variants</h4>
            <ul class="variants">
{{- range .Variants}}
                <li><code>{{.}}</code></li>
{{- end}}
            </ul>
{{- end}}
{{- if .Implementors}}
            <h4>Implementors</h4>
            <ul class="implementors">
{{- range .Implementors}}
                <li><a href="#{{.}}">{{.}}</a></li>
{{- end}}
            </ul>
{{- end}}
{{- if .Methods}}
            <h4>Methods</h4>
            <ul class="methods">
{{- range .Methods}}
                <li><code>{{.}}</code></li>
{{- end}}
            </ul>
{{- end}}
        </div>
{{- end}}
{{- end}}
    </div>
</body>
</html>
`))

// GenerateHTML resolves impl relations, then writes index.html and
// style.css into outputDir.
func (g *Generator) GenerateHTML(outputDir, packageName string) error {
	g.resolveImplRelations()

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	doc := page{Package: packageName}
	groups := []struct {
		title string
		kind  Kind
	}{
		{"Functions", KindFunction},
		{"Structs", KindStruct},
		{"Enums", KindEnum},
		{"Traits", KindTrait},
		{"Constants", KindConstant},
		{"Variables", KindVariable},
	}
	for _, group := range groups {
		var items []renderedItem
		for _, item := range g.items {
			if item.Kind != group.kind {
				continue
			}
			items = append(items, renderedItem{
				Item:          item,
				SignatureHTML: g.signatureHTML(item),
				DocLines:      docLines(item.Doc),
			})
		}
		if len(items) > 0 {
			doc.Sections = append(doc.Sections, section{Title: group.title, Items: items})
		}
	}

	var buf strings.Builder
	if err := pageTemplate.Execute(&buf, doc); err != nil {
		return fmt.Errorf("failed to render index.html: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, "index.html"), []byte(buf.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write index.html: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, "style.css"), []byte(styleCSS), 0o644); err != nil {
		return fmt.Errorf("failed to write style.css: %w", err)
	}
	return nil
}

func docLines(doc string) []string {
	if doc == "" {
		return nil
	}
	return strings.Split(doc, "\n")
}

// signatureHTML renders an item signature. Function signatures get
// anchor links on the type positions only; everything else is escaped
// as-is.
func (g *Generator) signatureHTML(item *Item) template.HTML {
	if item.Signature == "" {
		return ""
	}
	if !item.IsFunction() {
		return template.HTML(template.HTMLEscapeString(item.Signature))
	}

	var prefix string
	if item.IsExported {
		prefix += "teach "
	}
	if item.IsAsync {
		prefix += "async "
	}
	params := make([]string, 0, len(item.Params))
	for _, p := range item.Params {
		params = append(params, fmt.Sprintf("%s: %s", template.HTMLEscapeString(p.Name), g.linkedType(p.Type)))
	}
	return template.HTML(fmt.Sprintf("%sfn %s(%s) -&gt; %s",
		prefix, template.HTMLEscapeString(item.Name), strings.Join(params, ", "), g.linkedType(item.ReturnType)))
}

// linkedType escapes a type string and turns every whole-word
// occurrence of a documented item name into an anchor link.
func (g *Generator) linkedType(typeStr string) string {
	escaped := template.HTMLEscapeString(typeStr)

	names := make([]string, 0, len(g.items))
	for _, item := range g.items {
		names = append(names, item.Name)
	}
	// Longest first so Reader is not linked inside BufferedReader.
	sort.Slice(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })

	type swap struct{ placeholder, link string }
	var swaps []swap
	for i, name := range names {
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(name) + `\b`)
		if err != nil || !re.MatchString(escaped) {
			continue
		}
		placeholder := fmt.Sprintf("\x00ITEM%d\x00", i)
		escaped = re.ReplaceAllString(escaped, placeholder)
		swaps = append(swaps, swap{placeholder, fmt.Sprintf(`<a href="#%s">%s</a>`, name, name)})
	}
	for _, s := range swaps {
		escaped = strings.ReplaceAll(escaped, s.placeholder, s.link)
	}
	return escaped
}

const styleCSS = `body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
    line-height: 1.6;
    max-width: 1200px;
    margin: 0 auto;
    padding: 20px;
    background-color: #f5f5f5;
    color: #333;
}

h1 {
    color: #2c3e50;
    border-bottom: 3px solid #3498db;
    padding-bottom: 10px;
    margin-bottom: 30px;
}

h2 {
    color: #34495e;
    margin-top: 40px;
    margin-bottom: 20px;
    border-bottom: 2px solid #ecf0f1;
    padding-bottom: 8px;
}

h3 {
    color: #2980b9;
    margin-top: 0;
}

h4 {
    color: #7f8c8d;
    margin-top: 15px;
    margin-bottom: 10px;
}

.container {
    background-color: white;
    padding: 30px;
    border-radius: 8px;
    box-shadow: 0 2px 4px rgba(0,0,0,0.1);
}

.doc-item {
    margin-bottom: 40px;
    padding: 20px;
    border: 1px solid #ecf0f1;
    border-radius: 6px;
    background-color: #fafafa;
}

.signature {
    background-color: #2c3e50;
    color: #ecf0f1;
    padding: 15px;
    border-radius: 5px;
    overflow-x: auto;
    margin: 15px 0;
}

.signature code {
    font-family: "SF Mono", Monaco, Menlo, Consolas, monospace;
    font-size: 14px;
}

.signature a {
    color: #5dade2;
}

.description p {
    margin: 8px 0;
}

ul.parameters, ul.fields, ul.methods, ul.traits, ul.implementors, ul.variants {
    list-style: none;
    padding-left: 10px;
}

ul.parameters li, ul.fields li, ul.methods li, ul.variants li {
    margin: 4px 0;
}

code {
    background-color: #ecf0f1;
    padding: 2px 6px;
    border-radius: 3px;
    font-family: "SF Mono", Monaco, Menlo, Consolas, monospace;
    font-size: 13px;
}

.exported {
    color: #27ae60;
    font-weight: 600;
}
`
