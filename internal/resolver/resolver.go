// Package resolver locates the model output files that are valid at a
// requested time.
//
// A Resolver globs the profile's search path, then narrows the result in
// order: an exact valid-time match, the year bucket, and finally one of two
// forecast-hour strategies. Init-offset applies when every candidate carries
// an initialization hour (hrrr.t12z.wrfnatf08); base-offset adds the forecast
// hour to the timestamp of the first candidate (2023010100/f006).
package resolver

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harrison/modelout/internal/fileutil"
	"github.com/harrison/modelout/internal/logger"
	"github.com/harrison/modelout/internal/models"
	"github.com/harrison/modelout/internal/registry"
	"github.com/harrison/modelout/internal/timefmt"
)

// Resolver resolves one request against one model profile.
// The result is computed once; later calls to Resolve return it again.
type Resolver struct {
	req     models.ResolutionRequest
	profile models.ModelProfile
	layout  *timefmt.Layout
	fields  fieldExtractor
	glob    fileutil.GlobFunc
	log     logger.Logger

	resolved bool
	result   *models.ResolutionResult
	err      error
}

// Option configures a Resolver
type Option func(*Resolver)

// WithGlob replaces the filesystem glob
func WithGlob(glob fileutil.GlobFunc) Option {
	return func(r *Resolver) {
		if glob != nil {
			r.glob = glob
		}
	}
}

// WithLogger sets the logger used for resolution progress
func WithLogger(l logger.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}

// New validates req against the registry and returns a Resolver for it.
// The request is normalized first; errors are *models.ResolveError values.
func New(reg *registry.Registry, req models.ResolutionRequest, opts ...Option) (*Resolver, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	profile, err := reg.Lookup(req.Model)
	if err != nil {
		return nil, withRequest(err, &req)
	}
	if err := reg.CheckFormat(req.Format); err != nil {
		return nil, withRequest(err, &req)
	}

	fields, err := newFieldExtractor(profile.Grammar)
	if err != nil {
		return nil, models.NewResolveError(models.ErrUnsupportedModel, &req,
			fmt.Sprintf("model %s: %v", profile.Name, err))
	}

	r := &Resolver{
		req:     req,
		profile: profile,
		fields:  fields,
		glob:    fileutil.Glob,
		log:     logger.NewNoOpLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if profile.IsStatic() {
		return r, nil
	}

	layout, err := timefmt.Compile(profile.TimeFormat)
	if err != nil {
		return nil, models.NewResolveError(models.ErrUnsupportedModel, &req,
			fmt.Sprintf("model %s: %v", profile.Name, err))
	}
	if _, ok := layout.Offset('Y'); !ok {
		return nil, models.NewResolveError(models.ErrUnsupportedModel, &req,
			fmt.Sprintf("model %s: time format %q has no %%Y field", profile.Name, profile.TimeFormat))
	}
	if req.ValidTime == "" {
		return nil, models.NewResolveError(models.ErrInvalidParameter, &req,
			fmt.Sprintf("valid_time is required for model %s", profile.Name))
	}
	if _, err := layout.Parse(req.ValidTime); err != nil {
		return nil, models.NewResolveError(models.ErrInvalidParameter, &req,
			fmt.Sprintf("valid_time %q does not match format %q: %v", req.ValidTime, profile.TimeFormat, err))
	}
	r.layout = layout

	return r, nil
}

// Request returns the normalized request
func (r *Resolver) Request() models.ResolutionRequest {
	return r.req
}

// Profile returns the model profile used for resolution
func (r *Resolver) Profile() models.ModelProfile {
	return r.profile
}

// SearchPath returns the glob pattern built for the request
func (r *Resolver) SearchPath() string {
	return BuildSearchPath(r.profile.SearchPath, r.req)
}

// Resolve scans the filesystem and returns the files valid at the requested time
func (r *Resolver) Resolve() (*models.ResolutionResult, error) {
	if r.resolved {
		return r.result, r.err
	}
	r.resolved = true

	r.log.LogDebug(fmt.Sprintf("Resolving %s", r.req.String()))
	if r.profile.IsStatic() {
		r.result, r.err = r.resolveStatic()
	} else {
		r.result, r.err = r.resolveTimed()
	}
	return r.result, r.err
}

func (r *Resolver) resolveTimed() (*models.ResolutionResult, error) {
	searchPath := r.SearchPath()
	result := &models.ResolutionResult{SearchPath: searchPath}

	files, err := r.glob(searchPath)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", searchPath, err)
	}
	r.log.LogTrace(fmt.Sprintf("Search path %s returned %d files", searchPath, len(files)))
	if len(files) == 0 {
		return nil, r.errorf(models.ErrNoMatch, searchPath, nil, "file search returned no matches")
	}

	direct := containing(files, r.req.ValidTime)
	if len(direct) == 1 {
		r.log.LogInfo(fmt.Sprintf("Single valid file found: %s", direct[0]))
		result.Strategy = models.StrategyDirect
		result.RegisterMatch(direct[0])
		return result, nil
	}
	if len(direct) > 1 {
		r.log.LogDebug(fmt.Sprintf("%d files contain %s, comparing forecast hours", len(direct), r.req.ValidTime))
	}

	yearOffset, _ := r.layout.Offset('Y')
	year := r.req.ValidTime[yearOffset : yearOffset+4]
	bucket := yearBucket(files, year)
	if len(bucket) == 0 {
		return nil, r.errorf(models.ErrNoMatch, searchPath, nil, fmt.Sprintf("no file contains year %s", year))
	}

	stamp := stampLocator{year: year, offset: yearOffset, layout: r.layout}
	candidates := buildCandidates(bucket, stamp, r.fields)
	ordered := withForecast(candidates)
	if len(ordered) == 0 {
		return nil, r.errorf(models.ErrMissingForecastEncoding, searchPath, bucket,
			"no valid time or forecast hour could be found in the filenames")
	}

	if allHaveInit(candidates) {
		return r.initOffset(result, ordered)
	}

	base, err := r.baseTime(bucket[0], stamp)
	if err != nil {
		return nil, r.errorf(models.ErrNoMatch, searchPath, []string{bucket[0]}, err.Error())
	}
	r.log.LogDebug(fmt.Sprintf("Base time is %s", r.layout.Format(base)))
	result.BaseTime = &base
	return r.baseOffset(result, ordered, base)
}

// baseTime parses the timestamp field of the reference file
func (r *Resolver) baseTime(ref string, stamp stampLocator) (time.Time, error) {
	start := stamp.start(ref)
	end := start + len(r.req.ValidTime)
	if start < 0 || end > len(ref) {
		return time.Time{}, fmt.Errorf("cannot locate a base time in %s", ref)
	}
	base, err := r.layout.Parse(ref[start:end])
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot read base time from %s: %w", ref, err)
	}
	return base, nil
}

// initOffset accepts every candidate whose init hour plus forecast hour equals
// the requested hour. The sum is not wrapped at 24.
func (r *Resolver) initOffset(result *models.ResolutionResult, ordered []models.FileCandidate) (*models.ResolutionResult, error) {
	text, ok := r.layout.Field(r.req.ValidTime, 'H')
	if !ok {
		return nil, r.errorf(models.ErrUnsupportedModel, result.SearchPath, nil,
			fmt.Sprintf("time format %q has no %%H field to compare initialization hours against", r.profile.TimeFormat))
	}
	target, ok := hours(text)
	if !ok {
		return nil, r.errorf(models.ErrInvalidParameter, result.SearchPath, nil,
			fmt.Sprintf("valid time hour %q is not a number", text))
	}

	result.Strategy = models.StrategyInitOffset
	for _, c := range ordered {
		if c.InitHour+c.ForecastHour == target {
			r.log.LogDebug(fmt.Sprintf("Init %sz + f%s reaches hour %02d: %s", c.InitHourText, c.ForecastHourText, target, c.Path))
			result.RegisterMatch(c.Path)
		}
	}
	if len(result.ValidFiles) == 0 {
		return nil, r.errorf(models.ErrNoMatch, result.SearchPath, nil,
			fmt.Sprintf("no initialization and forecast hour combination reaches hour %02d", target))
	}

	r.log.LogInfo(fmt.Sprintf("%d valid files found for %s", len(result.ValidFiles), r.req.ValidTime))
	return result, nil
}

// baseOffset accepts the single candidate whose base time plus forecast hour
// formats to a substring of the requested time.
func (r *Resolver) baseOffset(result *models.ResolutionResult, ordered []models.FileCandidate, base time.Time) (*models.ResolutionResult, error) {
	var matches []models.FileCandidate
	for _, c := range ordered {
		valid := base.Add(time.Duration(c.ForecastHour) * time.Hour)
		if strings.Contains(r.req.ValidTime, r.layout.Format(valid)) {
			matches = append(matches, c)
		}
	}

	switch len(matches) {
	case 0:
		return nil, r.errorf(models.ErrNoMatch, result.SearchPath, nil,
			"no valid forecasts were found; check that the valid time is within the forecast range")
	case 1:
		r.log.LogInfo(fmt.Sprintf("Single valid file found: %s", matches[0].Path))
		result.Strategy = models.StrategyBaseOffset
		result.RegisterMatch(matches[0].Path)
		return result, nil
	default:
		return nil, r.errorf(models.ErrAmbiguousMatch, result.SearchPath, candidatePaths(matches),
			fmt.Sprintf("%d files are valid at the requested time", len(matches)))
	}
}

func (r *Resolver) errorf(kind error, searchPath string, candidates []string, msg string) error {
	e := models.NewResolveError(kind, &r.req, msg)
	e.SearchPath = searchPath
	e.Candidates = candidates
	r.log.LogWarn(e.Error())
	return e
}

// withRequest fills the request context into a resolution error from the registry
func withRequest(err error, req *models.ResolutionRequest) error {
	var re *models.ResolveError
	if errors.As(err, &re) {
		re.RootDir = req.RootDir
		re.SubDir = req.SubDirHint
		re.ValidTime = req.ValidTime
	}
	return err
}
