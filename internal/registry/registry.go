// Package registry holds the immutable table of supported models and data
// formats. A Registry is built once (built-in profiles plus optional HCL
// overrides) and passed to every resolver; nothing in it changes afterwards.
package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/harrison/modelout/internal/models"
	"github.com/harrison/modelout/internal/timefmt"
)

// Registry maps model names to profiles
type Registry struct {
	profiles map[string]models.ModelProfile
	formats  map[string]bool
}

// New builds a registry from profiles and formats.
// Later profiles with the same name replace earlier ones.
func New(profiles []models.ModelProfile, formats []string) (*Registry, error) {
	r := &Registry{
		profiles: make(map[string]models.ModelProfile, len(profiles)),
		formats:  make(map[string]bool, len(formats)),
	}
	for _, f := range formats {
		r.formats[strings.ToLower(f)] = true
	}
	for _, p := range profiles {
		p.Name = strings.ToLower(strings.TrimSpace(p.Name))
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if !p.IsStatic() {
			if _, err := timefmt.Compile(p.TimeFormat); err != nil {
				return nil, fmt.Errorf("model %s: %w", p.Name, err)
			}
		}
		if p.Grammar.Kind == "" {
			p.Grammar.Kind = models.GrammarMarker
		}
		r.profiles[p.Name] = cloneProfile(p)
	}
	return r, nil
}

// Default returns a registry of the built-in models and formats
func Default() *Registry {
	r, err := New(builtinProfiles(), builtinFormats)
	if err != nil {
		panic(fmt.Sprintf("registry: invalid built-in profile: %v", err))
	}
	return r
}

// With returns a new registry where overrides replace or extend the profiles of r
func (r *Registry) With(overrides ...models.ModelProfile) (*Registry, error) {
	profiles := r.Profiles()
	profiles = append(profiles, overrides...)
	return New(profiles, r.Formats())
}

// Lookup returns the profile for a model name
func (r *Registry) Lookup(name string) (models.ModelProfile, error) {
	p, ok := r.profiles[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return models.ModelProfile{}, &models.ResolveError{
			Kind:    models.ErrUnsupportedModel,
			Message: fmt.Sprintf("model name %q is not supported; supported models: %s", name, strings.Join(r.Names(), ", ")),
		}
	}
	return cloneProfile(p), nil
}

// CheckFormat returns an error unless format is supported
func (r *Registry) CheckFormat(format string) error {
	if r.formats[strings.ToLower(strings.TrimSpace(format))] {
		return nil
	}
	return &models.ResolveError{
		Kind:    models.ErrUnsupportedModel,
		Message: fmt.Sprintf("data format %q is not supported; supported formats: %s", format, strings.Join(r.Formats(), ", ")),
	}
}

// Names returns the registered model names, sorted
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Formats returns the supported data formats, sorted
func (r *Registry) Formats() []string {
	formats := make([]string, 0, len(r.formats))
	for f := range r.formats {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// Profiles returns copies of all profiles ordered by name
func (r *Registry) Profiles() []models.ModelProfile {
	out := make([]models.ModelProfile, 0, len(r.profiles))
	for _, name := range r.Names() {
		out = append(out, cloneProfile(r.profiles[name]))
	}
	return out
}

// Attributes returns the dims or coords table of a model.
// A model without a table for kind yields an empty map.
func (r *Registry) Attributes(model, kind string) (map[string]string, error) {
	p, err := r.Lookup(model)
	if err != nil {
		return nil, err
	}
	table, ok := p.AttributeTable(kind)
	if !ok {
		return nil, &models.ResolveError{
			Kind:    models.ErrInvalidParameter,
			Message: fmt.Sprintf("attribute check can only be for %q or %q, not %q", models.AttrDims, models.AttrCoords, kind),
		}
	}
	if table == nil {
		table = map[string]string{}
	}
	return table, nil
}

func cloneProfile(p models.ModelProfile) models.ModelProfile {
	p.Dims = cloneMap(p.Dims)
	p.Coords = cloneMap(p.Coords)
	return p
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
