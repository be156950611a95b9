package templates

import (
	"fmt"
	"strings"
)

// Extension is the file extension pandoc expects for LaTeX templates.
const Extension = ".latex"

// ValidateName checks that a template name is safe for use as a filename.
// A trailing ".latex" is accepted; any other dot is rejected.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidTemplateName)
	}
	if strings.ContainsAny(strings.TrimSuffix(name, Extension), "/\\.\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidTemplateName, name)
	}
	return nil
}

// fileName returns the on-disk name of a template.
func fileName(name string) string {
	return strings.TrimSuffix(name, Extension) + Extension
}
