package logger

import "github.com/fatih/color"

var levelColors = map[string]*color.Color{
	"TRACE": color.New(color.FgHiBlack),
	"DEBUG": color.New(color.FgCyan),
	"INFO":  color.New(color.FgBlue),
	"WARN":  color.New(color.FgYellow),
	"ERROR": color.New(color.FgRed),
}

// levelColor returns the color for a level tag; unknown levels are printed plain
func levelColor(level string) *color.Color {
	if c, ok := levelColors[level]; ok {
		return c
	}
	return color.New(color.Reset)
}
