// Package render converts post content to HTML and plain text for the
// public-facing surfaces.
package render

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/quillcms/quill/internal/models"
)

// Renderer renders post bodies. Markdown is the default interpretation;
// content explicitly typed as html passes through untouched.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{md: goldmark.New()}
}

// HTML renders the content body to HTML.
func (r *Renderer) HTML(content models.Content) (string, error) {
	if content.IsTyped() && content.Format == "html" {
		return content.Text(), nil
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(content.Text()), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// PlainText strips markup from the content body by walking the markdown AST
// and collecting text nodes.
func (r *Renderer) PlainText(content models.Content) string {
	source := []byte(content.Text())
	node := r.md.Parser().Parse(text.NewReader(source))

	var builder strings.Builder
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n.Kind() {
		case ast.KindText:
			textNode := n.(*ast.Text)
			builder.Write(textNode.Segment.Value(source))
			if textNode.SoftLineBreak() || textNode.HardLineBreak() {
				builder.WriteString(" ")
			}
		case ast.KindParagraph, ast.KindHeading, ast.KindList:
			builder.WriteString("\n")
		case ast.KindFencedCodeBlock, ast.KindCodeBlock:
			// Code blocks do not belong in excerpts.
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(builder.String())
}

// Excerpt produces a plain-text excerpt of at most limit runes, appending an
// ellipsis when the body was cut.
func (r *Renderer) Excerpt(content models.Content, limit int) string {
	plain := strings.Join(strings.Fields(r.PlainText(content)), " ")
	if limit <= 0 || utf8.RuneCountInString(plain) <= limit {
		return plain
	}
	runes := []rune(plain)
	return strings.TrimSpace(string(runes[:limit])) + "…"
}
