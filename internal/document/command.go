package document

// Command is a structural workflow command parsed from a line prefix of the
// form `##[name]` or `[name]`.
// See https://docs.github.com/en/actions/using-workflows/workflow-commands-for-github-actions
type Command int

const (
	CmdNone Command = iota
	CmdCommand
	CmdDebug
	CmdError
	CmdInfo
	CmdNotice
	CmdVerbose
	CmdWarning
	CmdGroup
	CmdEndGroup
)

var commandNames = map[string]Command{
	"command":  CmdCommand,
	"debug":    CmdDebug,
	"error":    CmdError,
	"info":     CmdInfo,
	"notice":   CmdNotice,
	"verbose":  CmdVerbose,
	"warning":  CmdWarning,
	"group":    CmdGroup,
	"endgroup": CmdEndGroup,
}

// ParseCommand maps a bracketed name to its command. Unrecognized names
// return CmdNone.
func ParseCommand(name string) Command {
	return commandNames[name]
}

func (c Command) String() string {
	for name, cmd := range commandNames {
		if cmd == c {
			return name
		}
	}
	return ""
}
