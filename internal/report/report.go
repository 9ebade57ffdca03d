// Package report writes resolution reports as Markdown or HTML and reads the
// file list back out of a Markdown report.
package report

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/harrison/modelout/internal/filelock"
	"github.com/harrison/modelout/internal/models"
)

// filesHeading introduces the resolved file list; ParseFiles looks for it
const filesHeading = "Files"

// Report is one resolution and, optionally, the attributes read from its files
type Report struct {
	Request     models.ResolutionRequest
	Result      *models.ResolutionResult
	Err         error
	Attributes  map[string]map[string]any // path -> logical name -> value
	AttrKind    string
	GeneratedAt time.Time
}

// Markdown renders the report
func (r *Report) Markdown() []byte {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s resolution\n\n", r.Request.Model)
	b.WriteString("| Field | Value |\n|---|---|\n")
	row(&b, "Model", r.Request.Model)
	row(&b, "Format", r.Request.Format)
	row(&b, "Root", r.Request.RootDir)
	row(&b, "Subdirectory", r.Request.SubDirHint)
	row(&b, "Valid time", r.Request.ValidTime)
	row(&b, "Domain", r.Request.Domain)
	if r.Result != nil {
		row(&b, "Strategy", string(r.Result.Strategy))
		row(&b, "Search path", r.Result.SearchPath)
		if r.Result.BaseTime != nil {
			row(&b, "Base time", r.Result.BaseTime.Format(time.RFC3339))
		}
	}
	if !r.GeneratedAt.IsZero() {
		row(&b, "Generated", r.GeneratedAt.Format(time.RFC3339))
	}
	b.WriteString("\n")

	if r.Err != nil {
		b.WriteString("## Error\n\n")
		if kind := models.ErrorKind(r.Err); kind != "" {
			fmt.Fprintf(&b, "**%s**: ", kind)
		}
		fmt.Fprintf(&b, "%s\n\n", r.Err.Error())
	}

	if r.Result != nil {
		fmt.Fprintf(&b, "## %s\n\n", filesHeading)
		for i, f := range r.Result.ValidFiles {
			fmt.Fprintf(&b, "%d. `%s`\n", i+1, f)
		}
		b.WriteString("\n")
	}

	if len(r.Attributes) > 0 {
		fmt.Fprintf(&b, "## Attributes (%s)\n\n", r.AttrKind)
		paths := make([]string, 0, len(r.Attributes))
		for p := range r.Attributes {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		for _, p := range paths {
			fmt.Fprintf(&b, "### %s\n\n| Name | Value |\n|---|---|\n", filepath.Base(p))
			attrs := r.Attributes[p]
			keys := make([]string, 0, len(attrs))
			for k := range attrs {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				row(&b, k, fmt.Sprintf("%v", attrs[k]))
			}
			b.WriteString("\n")
		}
	}

	return []byte(b.String())
}

func row(b *strings.Builder, field, value string) {
	if value == "" {
		value = "-"
	}
	fmt.Fprintf(b, "| %s | %s |\n", field, strings.ReplaceAll(value, "|", `\|`))
}

// HTML renders the Markdown report to a standalone HTML page
func (r *Report) HTML() ([]byte, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))

	var body bytes.Buffer
	if err := md.Convert(r.Markdown(), &body); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	var page bytes.Buffer
	fmt.Fprintf(&page, "<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>%s resolution</title></head>\n<body>\n", r.Request.Model)
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

// Write stores the report at path: HTML for .html/.htm, Markdown otherwise
func (r *Report) Write(ctx context.Context, path string) error {
	var data []byte
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		html, err := r.HTML()
		if err != nil {
			return err
		}
		data = html
	default:
		data = r.Markdown()
	}
	return filelock.LockAndWrite(ctx, path, data)
}
