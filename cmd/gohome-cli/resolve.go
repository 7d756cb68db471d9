package main

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
)

// normalizeName folds case and collapses any run of separators to one
// underscore, so "Living Room", "living-room" and "LIVING_ROOM" compare equal.
func normalizeName(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '_'
	})
	return strings.Join(fields, "_")
}

// resolveNamedID maps a human label to its id. An exact (normalized) match
// wins; otherwise a unique prefix is accepted.
func resolveNamedID(kind, input string, options map[string]string) (string, error) {
	needle := normalizeName(input)
	labels := make([]string, 0, len(options))
	for label := range options {
		labels = append(labels, label)
	}
	slices.Sort(labels)

	var prefixed []string
	for _, label := range labels {
		name := normalizeName(label)
		if name == needle {
			return options[label], nil
		}
		if needle != "" && strings.HasPrefix(name, needle) {
			prefixed = append(prefixed, label)
		}
	}
	switch len(prefixed) {
	case 1:
		return options[prefixed[0]], nil
	case 0:
		return "", fmt.Errorf("%s %q not found. Available: %s", kind, input, strings.Join(labels, ", "))
	default:
		return "", fmt.Errorf("%s %q is ambiguous: %s", kind, input, strings.Join(prefixed, ", "))
	}
}
