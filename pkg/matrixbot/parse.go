package matrixbot

import (
	"strings"
	"unicode"
)

// ParseCommand splits a message body into a lower-cased command name and its
// raw arguments. ok is false when body doesn't start with prefix directly
// followed by a command name.
func ParseCommand(body, prefix string) (command, args string, ok bool) {
	if prefix == "" || !strings.HasPrefix(body, prefix) {
		return "", "", false
	}
	rest := body[len(prefix):]
	end := strings.IndexFunc(rest, unicode.IsSpace)
	switch {
	case rest == "" || end == 0:
		return "", "", false
	case end < 0:
		command = rest
	default:
		command, args = rest[:end], rest[end:]
	}
	return strings.ToLower(command), strings.TrimSpace(args), true
}
