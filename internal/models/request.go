package models

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ResolutionRequest is a user request to locate files valid at a given time.
type ResolutionRequest struct {
	Model      string `json:"model" validate:"required"`
	Format     string `json:"format" validate:"required"`
	RootDir    string `json:"root_dir" validate:"required"`
	SubDirHint string `json:"sub_dir,omitempty"`
	ValidTime  string `json:"valid_time,omitempty"`
	Domain     string `json:"domain,omitempty" validate:"omitempty,alphanum"`
}

// Normalize trims the request fields, lower-cases model and format, applies
// the default domain and makes sure directories end with a path separator.
// An empty subdirectory hint stays empty.
func (r *ResolutionRequest) Normalize() {
	r.Model = strings.ToLower(strings.TrimSpace(r.Model))
	r.Format = strings.ToLower(strings.TrimSpace(r.Format))
	r.RootDir = strings.TrimSpace(r.RootDir)
	r.SubDirHint = strings.TrimSpace(r.SubDirHint)
	r.ValidTime = strings.TrimSpace(r.ValidTime)
	r.Domain = strings.TrimSpace(r.Domain)

	if r.Domain == "" {
		r.Domain = DefaultDomain
	}
	r.RootDir = withSeparator(r.RootDir)
	if r.SubDirHint != "" {
		r.SubDirHint = withSeparator(r.SubDirHint)
	}
}

func withSeparator(dir string) string {
	if dir == "" {
		return dir
	}
	sep := string(filepath.Separator)
	if strings.HasSuffix(dir, sep) || strings.HasSuffix(dir, "/") {
		return dir
	}
	return dir + sep
}

// Validate checks the request fields and returns an error wrapping
// ErrInvalidParameter when one of them is unusable.
func (r *ResolutionRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return &ResolveError{
			Kind:      ErrInvalidParameter,
			Message:   err.Error(),
			RootDir:   r.RootDir,
			SubDir:    r.SubDirHint,
			ValidTime: r.ValidTime,
		}
	}
	return nil
}

// String returns a one-line summary of the request for logs
func (r ResolutionRequest) String() string {
	return fmt.Sprintf("model=%s format=%s root=%s sub=%s valid_time=%s domain=%s",
		r.Model, r.Format, r.RootDir, r.SubDirHint, r.ValidTime, r.Domain)
}
