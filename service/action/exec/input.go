package exec

// Input represents local shell commands to run
type Input struct {
	Directory    string            `json:"directory,omitempty" description:"directory where commands start"`
	Env          map[string]string `json:"env,omitempty" description:"environment variables set before commands run"`
	Commands     []string          `json:"commands,omitempty" description:"commands to execute"`
	TimeoutMs    int               `json:"timeoutMs,omitempty" yaml:"timeoutMs,omitempty" description:"max wait time per command"`
	AbortOnError *bool             `json:"abortOnError,omitempty" description:"stop at the first command with non zero status"`
}

func (i *Input) abortOnError() bool {
	if i.AbortOnError == nil {
		return true
	}
	return *i.AbortOnError
}
