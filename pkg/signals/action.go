package signals

import "fmt"

// Action is a transition of the interrupt state that can be requested by or
// reported to another component, typically over the control socket.
//
// This package does not act on Actions; it only names them and provides
// their serialization. Actions are marshaled as the strings "interrupt" and
// "reset" through encoding.TextMarshaler, which covers JSON and YAML.
type Action uint8

// Possible values of Action.
const (
	Interrupt Action = iota
	Reset
)

var actionNames = [...]string{
	Interrupt: "interrupt",
	Reset:     "reset",
}

// ParseAction parses the name of an Action.
func ParseAction(name string) (Action, error) {
	for a, s := range actionNames {
		if s == name {
			return Action(a), nil
		}
	}
	return 0, fmt.Errorf("unknown signal action %q", name)
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", a)
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	if int(a) >= len(actionNames) {
		return nil, fmt.Errorf("invalid signal action %d", a)
	}
	return []byte(actionNames[a]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
