package message

// Startup is the single unframed record a coordinator writes to a new
// worker's standard input, terminated by a newline.
type Startup struct {
	Bootstrap string `json:"bootstrap"`
	Execute   string `json:"execute"`
}

// Readiness is the first framed value a worker emits. Anything other than
// Running=true is a spawn failure.
type Readiness struct {
	Running bool   `json:"running"`
	Error   string `json:"error,omitempty"`
}

// IsReady returns true when msg carries a positive readiness record
func IsReady(msg *Message) bool {
	if msg == nil || msg.Kind != KindData {
		return false
	}
	switch actual := msg.Data.(type) {
	case map[string]interface{}:
		running, ok := actual["running"].(bool)
		return ok && running
	case *Readiness:
		return actual.Running
	case Readiness:
		return actual.Running
	}
	return false
}
