package actions

import "strings"

// Slugify lowercases name and joins whitespace-separated words with "-".
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}
