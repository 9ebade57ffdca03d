package resolver

import (
	"strings"

	"github.com/harrison/modelout/internal/models"
)

// BuildSearchPath assembles the glob pattern for a request:
// root + main/sub divider + subdir + sub/file divider + prefix [+ domain] + suffix.
// req must already be normalized.
func BuildSearchPath(rule models.SearchPathRule, req models.ResolutionRequest) string {
	var sb strings.Builder
	sb.WriteString(req.RootDir)
	sb.WriteString(rule.MainToSubDivider)
	sb.WriteString(req.SubDirHint)
	sb.WriteString(rule.SubToFileDivider)
	sb.WriteString(rule.FilePrefix)
	if rule.UseDomainTag {
		sb.WriteString(req.Domain)
	}
	sb.WriteString(rule.FileSuffix)
	return sb.String()
}

// staticSearchPath is the first place time-independent output is looked for:
// directly under the root directory, ignoring the subdirectory hint.
func staticSearchPath(rule models.SearchPathRule, req models.ResolutionRequest) string {
	var sb strings.Builder
	sb.WriteString(req.RootDir)
	sb.WriteString(rule.FilePrefix)
	if rule.UseDomainTag {
		sb.WriteString(req.Domain)
	}
	sb.WriteString(rule.FileSuffix)
	return sb.String()
}
