package task

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

const (
	whitespaceCode = iota
	serviceCode
	dotCode
	methodCode
)

var (
	whitespaceToken = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	serviceToken    = parsly.NewToken(serviceCode, "Service", &serviceMatcher{})
	dotToken        = parsly.NewToken(dotCode, ".", matcher.NewByte('.'))
	methodToken     = parsly.NewToken(methodCode, "Method", &methodMatcher{})
)

// serviceMatcher matches a service name such as "system/exec" or "debug"
type serviceMatcher struct{}

func (m *serviceMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize
	if pos >= size || !isLetter(input[pos]) {
		return 0
	}
	matched := 1
	for i := pos + 1; i < size; i++ {
		c := input[i]
		if isLetter(c) || isDigit(c) || c == '_' || c == '-' || c == '/' {
			matched++
			continue
		}
		break
	}
	if input[pos+matched-1] == '/' {
		return 0
	}
	return matched
}

// methodMatcher matches an identifier
type methodMatcher struct{}

func (m *methodMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize
	if pos >= size {
		return 0
	}
	if !isLetter(input[pos]) && input[pos] != '_' {
		return 0
	}
	matched := 1
	for i := pos + 1; i < size; i++ {
		if isLetter(input[i]) || isDigit(input[i]) || input[i] == '_' {
			matched++
			continue
		}
		break
	}
	return matched
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
