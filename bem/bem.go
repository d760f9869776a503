// Package bem resolves class names against Block-Element-Modifier
// conventions: "block__element" and "block--modifier".
package bem

import "strings"

const (
	ElementSeparator  = "__"
	ModifierSeparator = "--"
	hyphen            = "-"
)

// BlockBase returns token truncated at its leftmost BEM separator ("__" or
// "--"), or the token itself when there is none.
func BlockBase(token string) string {
	idx := strings.Index(token, ElementSeparator)
	if m := strings.Index(token, ModifierSeparator); m >= 0 && (idx < 0 || m < idx) {
		idx = m
	}
	if idx < 0 {
		return token
	}
	return token[:idx]
}

// FormatSelector renders token relative to the enclosing block. Empty block
// means there is no enclosing block. Classes derived from the block become
// parent references ("&__title", "&--active", "&-footer"), anything else is a
// plain class selector.
func FormatSelector(token, block string) string {
	if block == "" {
		return "." + token
	}
	// double separators first, otherwise "block__x" would turn into "&-_x"
	for _, sep := range []string{ElementSeparator, ModifierSeparator, hyphen} {
		if suffix, ok := strings.CutPrefix(token, block+sep); ok {
			return "&" + sep + suffix
		}
	}
	return "." + token
}
