package registry

import "github.com/harrison/modelout/internal/models"

// builtinFormats are the data formats every registry accepts
var builtinFormats = []string{models.FormatNetCDF, models.FormatGRIB2}

// builtinProfiles returns fresh copies of the profiles shipped with modelout
func builtinProfiles() []models.ModelProfile {
	return []models.ModelProfile{
		{
			Name:       "wrf",
			TimeFormat: "%Y-%m-%d_%H:%M:%S",
			SearchPath: models.SearchPathRule{
				UseDomainTag:     true,
				SubToFileDivider: "**/",
				FilePrefix:       "wrfout_",
				FileSuffix:       "*",
			},
			Grammar: models.FilenameGrammar{Kind: models.GrammarMarker},
			Dims: map[string]string{
				"nt": "Time",
				"nz": "bottom_top",
				"ny": "south_north",
				"nx": "west_east",
			},
			Coords: map[string]string{
				"latitude":  "XLAT",
				"longitude": "XLONG",
				"time":      "XTIME",
			},
		},
		{
			// geo_em.d01.nc carries no time at all
			Name: "wrf-geogrid",
			SearchPath: models.SearchPathRule{
				UseDomainTag:     true,
				SubToFileDivider: "**/",
				FilePrefix:       "geo_em.",
				FileSuffix:       ".nc",
			},
			Grammar: models.FilenameGrammar{Kind: models.GrammarMarker},
			Dims: map[string]string{
				"nt": "Time",
				"ny": "south_north_stag",
				"nx": "west_east_stag",
			},
		},
		{
			Name:       "rrfs",
			TimeFormat: "%Y%m%d%H",
			SearchPath: models.SearchPathRule{
				SubToFileDivider: "**/",
				FilePrefix:       "dyn",
				FileSuffix:       "*",
			},
			Grammar: models.FilenameGrammar{Kind: models.GrammarMarker},
			Dims: map[string]string{
				"nt": "time",
				"nz": "pfull",
				"nx": "grid_xt",
				"ny": "grid_yt",
			},
			Coords: map[string]string{
				"xloc":     "grid_xt",
				"yloc":     "grid_yt",
				"pressure": "pfull",
				"time":     "time",
			},
		},
		{
			Name:       "hrrr",
			TimeFormat: "%Y%m%d%H",
			SearchPath: models.SearchPathRule{
				SubToFileDivider: "**/",
				FilePrefix:       "hrrr.",
				FileSuffix:       "*",
			},
			Grammar: models.FilenameGrammar{Kind: models.GrammarMarker},
			Dims: map[string]string{
				"nz": "lv_HYBL0",
				"ny": "ygrid_0",
				"nx": "xgrid_0",
			},
			Coords: map[string]string{
				"latitude":  "gridlat_0",
				"longitude": "gridlon_0",
			},
		},
	}
}
