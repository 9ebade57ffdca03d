package display

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/harrison/modelout/internal/history"
	"github.com/harrison/modelout/internal/models"
	"github.com/harrison/modelout/internal/registry"
	"github.com/harrison/modelout/internal/resolver"
)

// PrintResult prints the files resolved for a request in read order
func PrintResult(out io.Writer, req models.ResolutionRequest, result *models.ResolutionResult) {
	bold := color.New(color.Bold)

	bold.Fprintf(out, "%s", req.Model)
	fmt.Fprintf(out, " %s at %s\n", req.Format, displayTime(req.ValidTime))
	fmt.Fprintf(out, "  Strategy:    %s\n", result.Strategy)
	fmt.Fprintf(out, "  Search path: %s\n", result.SearchPath)
	if result.BaseTime != nil {
		fmt.Fprintf(out, "  Base time:   %s\n", result.BaseTime.Format("2006-01-02 15:04 MST"))
	}
	fmt.Fprintf(out, "  Files (%d):\n", len(result.ValidFiles))
	for i, f := range result.ValidFiles {
		fmt.Fprintf(out, "    %d. %s\n", i+1, f)
	}
}

// PrintProfiles prints every registered model with its search pattern
func PrintProfiles(out io.Writer, reg *registry.Registry) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tTIME FORMAT\tSEARCH PATH\tGRAMMAR")
	for _, p := range reg.Profiles() {
		format := p.TimeFormat
		if format == "" {
			format = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Name, format, searchPattern(p.SearchPath), grammarName(p.Grammar))
	}
	tw.Flush()
	fmt.Fprintf(out, "\nFormats: %s\n", strings.Join(reg.Formats(), ", "))
}

// PrintAttributes prints an attribute table lookup for one file, sorted by key
func PrintAttributes(out io.Writer, path, kind string, attrs map[string]any) {
	fmt.Fprintf(out, "%s (%s)\n", path, kind)
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(out, "  %-10s %s\n", k, summarize(attrs[k]))
	}
}

// PrintHistory prints recorded resolutions, newest first
func PrintHistory(out io.Writer, records []*history.Resolution) {
	if len(records) == 0 {
		fmt.Fprintln(out, "No resolutions recorded.")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tSOURCE\tMODEL\tVALID TIME\tOUTCOME\tFILES")
	for _, r := range records {
		outcome := string(r.Strategy)
		if !r.Succeeded() {
			outcome = color.RedString(r.ErrorKind)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.Source,
			r.Request.Model,
			displayTime(r.Request.ValidTime),
			outcome,
			len(r.Files))
	}
	tw.Flush()
}

func searchPattern(rule models.SearchPathRule) string {
	return resolver.BuildSearchPath(rule, models.ResolutionRequest{
		RootDir:    "<root>/",
		SubDirHint: "<sub>/",
		Domain:     "<domain>",
	})
}

func grammarName(g models.FilenameGrammar) string {
	if g.Kind == "" {
		return string(models.GrammarMarker)
	}
	return string(g.Kind)
}

func displayTime(validTime string) string {
	if validTime == "" {
		return "any time"
	}
	return validTime
}

// summarize shortens long coordinate arrays to their length
func summarize(v any) string {
	s := fmt.Sprintf("%v", v)
	if len(s) <= 60 {
		return s
	}
	return s[:57] + "..."
}
