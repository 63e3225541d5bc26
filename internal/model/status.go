package model

// Status is the closed set of order states.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Statuses lists every valid state in display order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusDone}

// ParseStatus maps a label onto the enum.
func ParseStatus(label string) (Status, bool) {
	switch s := Status(label); s {
	case StatusPending, StatusInProgress, StatusDone:
		return s, true
	}
	return "", false
}

// Active reports whether the order still needs work.
func (s Status) Active() bool {
	return s != StatusDone
}

// NextStatus resolves a transition request. Every valid label is reachable
// from every state; an unknown label leaves the current state in place and
// reports false.
func NextStatus(current Status, label string) (Status, bool) {
	next, ok := ParseStatus(label)
	if !ok {
		return current, false
	}
	return next, true
}
