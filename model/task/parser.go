package task

import (
	"fmt"

	"github.com/viant/parsly"
)

// ParseHandler splits a handler name in the format: service.method
func ParseHandler(handler string) (service, method string, err error) {
	cursor := parsly.NewCursor("", []byte(handler), 0)

	matched := cursor.MatchAfterOptional(whitespaceToken, serviceToken)
	if matched.Code != serviceToken.Code {
		return "", "", cursor.NewError(serviceToken)
	}
	service = matched.Text(cursor)

	matched = cursor.MatchOne(dotToken)
	if matched.Code != dotToken.Code {
		return "", "", cursor.NewError(dotToken)
	}

	matched = cursor.MatchOne(methodToken)
	if matched.Code != methodToken.Code {
		return "", "", cursor.NewError(methodToken)
	}
	method = matched.Text(cursor)

	cursor.MatchOne(whitespaceToken)
	if cursor.Pos < cursor.InputSize {
		return "", "", fmt.Errorf("unexpected %q at %d in handler %q", handler[cursor.Pos:], cursor.Pos, handler)
	}
	return service, method, nil
}
