package meta

import (
	"os"
	"strings"
	"unicode"
)

const envPrefix = "${env."

// Expand replaces every ${env.KEY} with the value of environment variable
// KEY, or "" when unset. Keys may hold letters, digits and '_' only; an
// expression with any other character, or without a closing brace, is kept
// literally.
func Expand(value string) string {
	var b strings.Builder
	for {
		start := strings.Index(value, envPrefix)
		if start < 0 {
			b.WriteString(value)
			return b.String()
		}
		b.WriteString(value[:start])
		rest := value[start+len(envPrefix):]
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			b.WriteString(value[start:])
			return b.String()
		}
		if key := rest[:end]; isEnvKey(key) {
			b.WriteString(os.Getenv(key))
			value = rest[end+1:]
			continue
		}
		b.WriteString(envPrefix)
		value = rest
	}
}

func isEnvKey(key string) bool {
	for _, r := range key {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			return false
		}
	}
	return true
}
