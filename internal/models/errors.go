package models

import (
	"errors"
	"fmt"
	"strings"
)

// Resolution error kinds. Match them with errors.Is.
var (
	ErrInvalidParameter        = errors.New("invalid parameter")
	ErrUnsupportedModel        = errors.New("unsupported model or format")
	ErrNoMatch                 = errors.New("no matching file")
	ErrAmbiguousMatch          = errors.New("ambiguous match")
	ErrMissingForecastEncoding = errors.New("missing forecast encoding")
	ErrMultipleStaticFiles     = errors.New("multiple geogrid files")
)

// ResolveError describes why a request could not be resolved to files.
// Every field except Kind and Message is optional context for the user.
type ResolveError struct {
	Kind       error    // One of the Err* kinds above
	Message    string   // Human-readable explanation
	SearchPath string   // Glob pattern that was scanned
	RootDir    string   // Normalized root directory
	SubDir     string   // Normalized subdirectory hint
	ValidTime  string   // Requested valid time
	Candidates []string // Files involved in the failure, if any
}

// Error implements the error interface for ResolveError.
func (e *ResolveError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.Error())
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	if e.SearchPath != "" {
		sb.WriteString(fmt.Sprintf(" (search path %q)", e.SearchPath))
	}
	var ctx []string
	if e.RootDir != "" {
		ctx = append(ctx, fmt.Sprintf("root_dir=%q", e.RootDir))
	}
	if e.SubDir != "" {
		ctx = append(ctx, fmt.Sprintf("sub_dir=%q", e.SubDir))
	}
	if e.ValidTime != "" {
		ctx = append(ctx, fmt.Sprintf("valid_time=%q", e.ValidTime))
	}
	if len(ctx) > 0 {
		sb.WriteString(" [")
		sb.WriteString(strings.Join(ctx, ", "))
		sb.WriteString("]")
	}
	if len(e.Candidates) > 0 {
		sb.WriteString(fmt.Sprintf(": %s", strings.Join(e.Candidates, ", ")))
	}
	return sb.String()
}

// Unwrap returns the error kind so errors.Is works on the sentinel values.
func (e *ResolveError) Unwrap() error {
	return e.Kind
}

// NewResolveError creates a ResolveError for the given request context.
func NewResolveError(kind error, req *ResolutionRequest, msg string) *ResolveError {
	e := &ResolveError{Kind: kind, Message: msg}
	if req != nil {
		e.RootDir = req.RootDir
		e.SubDir = req.SubDirHint
		e.ValidTime = req.ValidTime
	}
	return e
}

// ErrorKind returns the short name of the resolution error kind in err, or ""
// if err is not a resolution error.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidParameter):
		return "invalid_parameter"
	case errors.Is(err, ErrUnsupportedModel):
		return "unsupported_model_or_format"
	case errors.Is(err, ErrNoMatch):
		return "no_match"
	case errors.Is(err, ErrAmbiguousMatch):
		return "ambiguous_match"
	case errors.Is(err, ErrMissingForecastEncoding):
		return "missing_forecast_encoding"
	case errors.Is(err, ErrMultipleStaticFiles):
		return "multiple_geogrid_files"
	default:
		return ""
	}
}
