package assets

import (
	"fmt"
	"strings"
)

// ValidateAssetName checks that a template or style name is safe to use as a
// filename. Names carry no extension, so dots are rejected along with path
// separators.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
