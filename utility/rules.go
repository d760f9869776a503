// Package utility classifies CSS class names as framework utilities (ignored
// when generating skeletons) or structural classes.
package utility

// Rule is a single utility class pattern. Pattern uses RE2 syntax and is
// matched against the whole class token independently of context.
type Rule struct {
	Pattern     string
	Description string
}

// DefaultRules covers Bootstrap grid, spacing, generic utilities and the most
// common component classes.
var DefaultRules = []Rule{
	{Pattern: `^container(-fluid)?$`, Description: "grid container"},
	{Pattern: `^row$`, Description: "grid row"},
	{Pattern: `^col(-(auto|\d+|sm|md|lg|xl|xxl)(-\d+)?)?$`, Description: "grid column and breakpoint variants"},
	{Pattern: `^g[xy]?-\d+$`, Description: "grid gutters"},
	{Pattern: `^(m|p)[trblxy]?-\d+$`, Description: "margin and padding, single letter direction"},
	{Pattern: `^(mt|mb|ms|me|mx|my|pt|pb|ps|pe|px|py)-\d+$`, Description: "margin and padding, two letter direction"},
	{
		Pattern: `^(text|bg|border|rounded|shadow|fw|fst|lh|user-select|pe|ps|d|float|position|top|start|end|bottom|align|justify|order|flex|gap|z|w|h|min-vw|min-vh|max-vw|max-vh|overflow|opacity)-`,
		Description: "generic utility prefixes",
	},
	{Pattern: `^btn(-[a-z0-9-]+)?$`, Description: "buttons"},
	{Pattern: `^nav(-[a-z0-9-]+)?$`, Description: "navs"},
	{Pattern: `^navbar(-[a-z0-9-]+)?$`, Description: "navbar"},
	{Pattern: `^dropdown(-[a-z0-9-]+)?$`, Description: "dropdowns"},
	{Pattern: `^breadcrumb(-[a-z0-9-]+)?$`, Description: "breadcrumbs"},
	{Pattern: `^alert(-[a-z0-9-]+)?$`, Description: "alerts"},
}
