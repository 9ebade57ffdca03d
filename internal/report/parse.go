package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ParseFiles returns the resolved file list of a Markdown report, in order
func ParseFiles(r io.Reader) ([]string, error) {
	source, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var files []string
	inFiles := false
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		if heading, ok := n.(*ast.Heading); ok && heading.Level == 2 {
			inFiles = strings.TrimSpace(nodeText(heading, source)) == filesHeading
			return ast.WalkSkipChildren, nil
		}

		if inFiles {
			if span, ok := n.(*ast.CodeSpan); ok {
				files = append(files, nodeText(span, source))
				return ast.WalkSkipChildren, nil
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk report: %w", err)
	}
	return files, nil
}

// nodeText concatenates the text segments below n
func nodeText(n ast.Node, source []byte) string {
	var sb strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			sb.Write(t.Segment.Value(source))
			continue
		}
		sb.WriteString(nodeText(c, source))
	}
	return sb.String()
}
