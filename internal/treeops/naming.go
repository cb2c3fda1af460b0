package treeops

import (
	"fmt"
	"strings"
)

// Naming selects how archive entries are named.
type Naming int

const (
	// NamingFlat names entries by base name; a later file replaces an
	// earlier one with the same name.
	NamingFlat Naming = iota
	// NamingFlatStrict names entries by base name and refuses collisions.
	NamingFlatStrict
	// NamingRelative names entries by their path relative to the root.
	NamingRelative
)

func (n Naming) String() string {
	switch n {
	case NamingFlatStrict:
		return "flat-strict"
	case NamingRelative:
		return "relative"
	default:
		return "flat"
	}
}

// ParseNaming accepts "flat", "flat-strict" and "relative".
func ParseNaming(s string) (Naming, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "flat":
		return NamingFlat, nil
	case "flat-strict", "strict":
		return NamingFlatStrict, nil
	case "relative":
		return NamingRelative, nil
	}
	return NamingFlat, fmt.Errorf("unknown archive naming %q", s)
}
