package message

import (
	"fmt"
	"strings"
)

// Kind represents a message kind
type Kind int

const (
	KindData Kind = iota
	KindExecutable
	KindHint
	KindException
	KindDead
	KindFinished
	KindUnknown
)

var kindNames = [...]string{
	KindData:       "data",
	KindExecutable: "executable",
	KindHint:       "hint",
	KindException:  "exception",
	KindDead:       "dead",
	KindFinished:   "finished",
	KindUnknown:    "unknown",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// IsValid returns true for a member of the vocabulary
func (k Kind) IsValid() bool {
	return k >= KindData && k <= KindUnknown
}

// ParseKind returns a kind for its wire name
func ParseKind(name string) (Kind, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, candidate := range kindNames {
		if candidate == name {
			return Kind(i), true
		}
	}
	return 0, false
}
