package youtube

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ArgumentError is a problem with user input. Its message is meant to be
// shown back to the user as is.
type ArgumentError struct {
	msg string
}

func (e *ArgumentError) Error() string { return e.msg }

func argErrorf(format string, args ...any) error {
	return &ArgumentError{msg: fmt.Sprintf(format, args...)}
}

// ParseQuery splits "[amount] <query>" into its parts. The amount defaults
// to 1; a lone number is taken as the query. A first word in double quotes
// is never treated as an amount. maxLimit, when positive, caps the amount.
func ParseQuery(arg string, maxLimit int) (query string, limit int, err error) {
	word, rest, quoted, err := firstWord(arg)
	if err != nil {
		return "", 0, err
	}
	if word == "" && rest == "" {
		return "", 0, argErrorf("Missing search query.")
	}

	limit, convErr := strconv.Atoi(word)
	query = rest
	if quoted || convErr != nil {
		query = strings.TrimSpace(word + " " + rest)
		limit = 1
	}

	if query == "" {
		query = word
		limit = 1
	}
	if query == "" {
		return "", 0, argErrorf("Missing search query.")
	}

	if limit <= 0 {
		return "", 0, argErrorf("Search limit must be greater than 0.")
	}
	if maxLimit > 0 && limit > maxLimit {
		return "", 0, argErrorf("Search limit must be at most %d.", maxLimit)
	}
	return query, limit, nil
}

func firstWord(s string) (word, rest string, quoted bool, err error) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	if s == "" {
		return "", "", false, nil
	}

	if s[0] == '"' {
		end := strings.IndexByte(s[1:], '"')
		if end < 0 {
			return "", "", true, argErrorf("Expected closing \".")
		}
		after := s[end+2:]
		if after != "" {
			if r, _ := utf8.DecodeRuneInString(after); !unicode.IsSpace(r) {
				return "", "", true, argErrorf("Expected space after closing quotation.")
			}
		}
		return s[1 : end+1], strings.TrimSpace(after), true, nil
	}

	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, "", false, nil
	}
	return s[:i], strings.TrimSpace(s[i:]), false, nil
}
