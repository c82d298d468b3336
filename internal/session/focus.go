package session

// Focus is the panel that receives keyboard input.
type Focus int

const (
	FocusConversationList Focus = iota
	FocusModelSelect
	FocusChat
	FocusInput
)

// focusCycle is the order "advance focus" walks through.
var focusCycle = []Focus{FocusConversationList, FocusModelSelect, FocusChat, FocusInput}

func (f Focus) String() string {
	switch f {
	case FocusConversationList:
		return "Conversation List"
	case FocusModelSelect:
		return "Model Select"
	case FocusChat:
		return "Chat"
	case FocusInput:
		return "Input"
	default:
		return "Unknown"
	}
}

// IsSidePanel reports whether f lives in the hideable side panel.
func (f Focus) IsSidePanel() bool {
	return f == FocusConversationList || f == FocusModelSelect
}

// Visible reports whether f can hold focus given the side panel visibility.
func (f Focus) Visible(showLists bool) bool {
	return showLists || !f.IsSidePanel()
}

// NextFocus returns the next visible state after f.
func NextFocus(f Focus, showLists bool) Focus {
	start := 0
	for i, c := range focusCycle {
		if c == f {
			start = i
			break
		}
	}
	for step := 1; step <= len(focusCycle); step++ {
		next := focusCycle[(start+step)%len(focusCycle)]
		if next.Visible(showLists) {
			return next
		}
	}
	return FocusInput
}

// InputMode is the editing state of the input field.
type InputMode int

const (
	InputNormal InputMode = iota
	InputEditing
)

func (m InputMode) String() string {
	if m == InputEditing {
		return "Editing"
	}
	return "Normal"
}

// Direction moves a selection forward or backward.
type Direction int

const (
	Prev Direction = -1
	Next Direction = 1
)

// wrap moves cur one step in dir over n items, wrapping at both ends.
// From no selection, Next lands on the first item and Prev on the last.
// It reports false, leaving cur unchanged, when there are no items.
func wrap(cur, n int, dir Direction) (int, bool) {
	if n <= 0 {
		return cur, false
	}
	if cur < 0 || cur >= n {
		if dir == Prev {
			return n - 1, true
		}
		return 0, true
	}
	return ((cur+int(dir))%n + n) % n, true
}
