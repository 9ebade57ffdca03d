// Package fileutil finds model output and configuration files on disk.
//
// Glob expands the search patterns produced by the resolver. Patterns follow
// the usual shell rules plus "**", which matches zero or more directory
// levels, so "/data/run/**/wrfout_d01*" finds wrfout files directly in
// /data/run and in any directory below it. Only regular files are returned.
//
// ScanDirectory walks a directory tree and collects files by extension. It is
// used to discover model profile files (*.hcl) when a directory is configured
// instead of a single file. Hidden directories are skipped and non-fatal
// errors are collected instead of aborting the walk.
//
// Example:
//
//	matches, err := fileutil.Glob("/data/hrrr/**/hrrr.*")
//	if err != nil {
//	    return err
//	}
//
//	result, err := fileutil.ScanDirectory("/etc/modelout/profiles", fileutil.ScanOptions{
//	    Extensions: []string{".hcl"},
//	    Recursive:  true,
//	})
package fileutil
