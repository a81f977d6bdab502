package render

import (
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error for stderr. The full wrapped chain is kept so
// the cause stays visible.
func FormatError(err error) string {
	msg := err.Error()
	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}
	return color.New(color.FgRed).Sprintf("Error: %s", msg)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// title turns identifiers like "transparent" into "Transparent"
func title(s string) string {
	return cases.Title(language.English).String(s)
}
