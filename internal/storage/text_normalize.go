package storage

import "strings"

const uncategorized = "Uncategorized"

func normalizeTransactionText(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}
	// Collapse any repeated whitespace (spaces/tabs/newlines) to a single space.
	return strings.Join(strings.Fields(trimmed), " ")
}

// normalizeCategory cleans a "Parent/Child" category path. Empty segments
// are dropped and an empty path becomes Uncategorized.
func normalizeCategory(raw string) string {
	parts := strings.Split(raw, "/")
	kept := parts[:0]
	for _, p := range parts {
		if p = normalizeTransactionText(p); p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return uncategorized
	}
	return strings.Join(kept, "/")
}

// categoryRoot is the first segment of a normalized category path.
func categoryRoot(category string) string {
	root, _, _ := strings.Cut(normalizeCategory(category), "/")
	return root
}
