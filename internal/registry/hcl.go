package registry

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/harrison/modelout/internal/fileutil"
	"github.com/harrison/modelout/internal/models"
)

// profileFile is the top level of a profile file.
//
//	model "gfs" {
//	  time_format = "%Y%m%d%H"
//	  search_path {
//	    sub_to_file_divider = "**/"
//	    prefix              = "gfs."
//	    suffix              = "*"
//	  }
//	  dims = { nx = "lon", ny = "lat" }
//	}
type profileFile struct {
	Models []*modelBlock `hcl:"model,block"`
}

type modelBlock struct {
	Name       string            `hcl:"name,label"`
	TimeFormat string            `hcl:"time_format,optional"`
	SearchPath *searchPathBlock  `hcl:"search_path,block"`
	Grammar    *grammarBlock     `hcl:"grammar,block"`
	Dims       map[string]string `hcl:"dims,optional"`
	Coords     map[string]string `hcl:"coords,optional"`
}

type searchPathBlock struct {
	UseDomain        bool   `hcl:"use_domain,optional"`
	MainToSubDivider string `hcl:"main_to_sub_divider,optional"`
	SubToFileDivider string `hcl:"sub_to_file_divider,optional"`
	Prefix           string `hcl:"prefix,optional"`
	Suffix           string `hcl:"suffix,optional"`
}

type grammarBlock struct {
	Kind            string `hcl:"kind"`
	ForecastPattern string `hcl:"forecast_pattern,optional"`
	InitPattern     string `hcl:"init_pattern,optional"`
}

// LoadProfiles reads model profiles from HCL files. Each path may be a file
// or a directory, in which case every *.hcl file below it is read.
func LoadProfiles(paths ...string) ([]models.ModelProfile, error) {
	files, err := findProfileFiles(paths)
	if err != nil {
		return nil, err
	}

	parser := hclparse.NewParser()
	var profiles []models.ModelProfile

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse profile file %s: %w", file, diags)
		}

		var root profileFile
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode profile file %s: %w", file, diags)
		}

		for _, block := range root.Models {
			profiles = append(profiles, block.toProfile())
		}
	}

	return profiles, nil
}

func (b *modelBlock) toProfile() models.ModelProfile {
	p := models.ModelProfile{
		Name:       b.Name,
		TimeFormat: b.TimeFormat,
		Grammar:    models.FilenameGrammar{Kind: models.GrammarMarker},
		Dims:       b.Dims,
		Coords:     b.Coords,
	}
	if b.SearchPath != nil {
		p.SearchPath = models.SearchPathRule{
			UseDomainTag:     b.SearchPath.UseDomain,
			MainToSubDivider: b.SearchPath.MainToSubDivider,
			SubToFileDivider: b.SearchPath.SubToFileDivider,
			FilePrefix:       b.SearchPath.Prefix,
			FileSuffix:       b.SearchPath.Suffix,
		}
	}
	if b.Grammar != nil {
		p.Grammar = models.FilenameGrammar{
			Kind:            models.GrammarKind(b.Grammar.Kind),
			ForecastPattern: b.Grammar.ForecastPattern,
			InitPattern:     b.Grammar.InitPattern,
		}
	}
	return p
}

func findProfileFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to access profile path %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		result, err := fileutil.ScanDirectory(path, fileutil.ScanOptions{
			Extensions: []string{".hcl"},
			Recursive:  true,
		})
		if err != nil {
			return nil, err
		}
		files = append(files, result.Files...)
	}
	return files, nil
}

// Load returns the default registry extended with the profiles found in
// paths. Empty paths are ignored.
func Load(paths ...string) (*Registry, error) {
	var nonEmpty []string
	for _, p := range paths {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	reg := Default()
	if len(nonEmpty) == 0 {
		return reg, nil
	}
	overrides, err := LoadProfiles(nonEmpty...)
	if err != nil {
		return nil, err
	}
	return reg.With(overrides...)
}
