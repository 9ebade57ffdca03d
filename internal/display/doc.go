// Package display renders modelout results for people at a terminal.
//
// Warnings explain failed resolutions with the files involved and a
// suggested fix:
//
//	if w, ok := display.WarningFor(err); ok {
//	    w.Display(os.Stderr)
//	}
//
// Results, profiles and history are printed as aligned tables:
//
//	display.PrintResult(os.Stdout, req, result)
//	display.PrintProfiles(os.Stdout, registry.Default())
//
// ProgressIndicator reports the dataset reader working through resolved files.
// Colors come from fatih/color and are dropped automatically when the output
// is not a terminal or NO_COLOR is set.
package display
