package resolver

import (
	"fmt"

	"github.com/harrison/modelout/internal/models"
)

// resolveStatic finds time-independent output by domain. Files directly
// under the root are preferred over the full search path.
func (r *Resolver) resolveStatic() (*models.ResolutionResult, error) {
	searchPath := staticSearchPath(r.profile.SearchPath, r.req)
	files, err := r.glob(searchPath)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", searchPath, err)
	}

	if len(files) == 0 {
		searchPath = r.SearchPath()
		r.log.LogDebug(fmt.Sprintf("Nothing under root, searching %s", searchPath))
		files, err = r.glob(searchPath)
		if err != nil {
			return nil, fmt.Errorf("search %s: %w", searchPath, err)
		}
	}

	files = uniqueSorted(files)

	switch len(files) {
	case 0:
		return nil, r.errorf(models.ErrNoMatch, searchPath, nil,
			fmt.Sprintf("no %s file found for domain %s", r.profile.Name, r.req.Domain))
	case 1:
		r.log.LogInfo(fmt.Sprintf("Single valid file found: %s", files[0]))
		result := &models.ResolutionResult{SearchPath: searchPath, Strategy: models.StrategyStatic}
		result.RegisterMatch(files[0])
		return result, nil
	default:
		return nil, r.errorf(models.ErrMultipleStaticFiles, searchPath, files,
			fmt.Sprintf("only one file is allowed for domain %s", r.req.Domain))
	}
}
