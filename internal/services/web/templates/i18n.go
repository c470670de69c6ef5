package templates

import (
	"fmt"
	"strings"

	"golang.org/x/text/message"
)

// Localizer provides translated strings for web components.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// T returns a translated string or a key-derived fallback.
func T(loc Localizer, key string, args ...any) string {
	if loc != nil {
		if value := strings.TrimSpace(loc.Sprintf(key, args...)); value != "" {
			return value
		}
	}
	if len(args) > 0 {
		return fmt.Sprintf(key, args...)
	}
	return key
}
