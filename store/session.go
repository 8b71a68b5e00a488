package store

import "fmt"

type Mode int

const (
	Idle Mode = iota
	Creating
	Editing
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Creating:
		return "creating"
	case Editing:
		return "editing"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Session records which form, if any, is open. ContactID is only set while Editing.
type Session struct {
	Mode      Mode
	ContactID int

	// epoch changes on every transition so results of calls issued under
	// an earlier session can be recognised as stale
	epoch uint64
}

func (s Session) String() string {
	if s.Mode == Editing {
		return fmt.Sprintf("editing(%d)", s.ContactID)
	}
	return s.Mode.String()
}

func (s Session) IsIdle() bool {
	return s.Mode == Idle
}
