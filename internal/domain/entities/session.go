package entities

// SessionMode tells where the queue came from.
type SessionMode string

const (
	ModeReview   SessionMode = "review"   // facts from the due set
	ModeLearning SessionMode = "learning" // freshly generated facts
)

// SessionStatus is the state of the session sequencer.
type SessionStatus string

const (
	StatusIdle     SessionStatus = "idle"
	StatusActive   SessionStatus = "active"
	StatusComplete SessionStatus = "complete"
)

// QueuedFact is a fact together with the level its record lives in.
type QueuedFact struct {
	Fact  Fact
	Level Level
}

// SessionQueue is the ordered list of facts worked through in one session.
type SessionQueue struct {
	Mode    SessionMode
	Level   Level // requested level for learning sessions, empty for review
	Items   []QueuedFact
	Cursor  int  // index of the current item
	Flipped bool // the current item's answer has been shown
}

// NewSessionQueue creates a queue positioned at its first item.
func NewSessionQueue(mode SessionMode, level Level, items []QueuedFact) *SessionQueue {
	return &SessionQueue{
		Mode:  mode,
		Level: level,
		Items: items,
	}
}

// Current returns the item under the cursor.
func (q *SessionQueue) Current() (QueuedFact, bool) {
	if q == nil || q.Cursor < 0 || q.Cursor >= len(q.Items) {
		return QueuedFact{}, false
	}
	return q.Items[q.Cursor], true
}

// Advance moves the cursor to the next item and reports whether one remains.
func (q *SessionQueue) Advance() bool {
	q.Cursor++
	q.Flipped = false
	return q.Cursor < len(q.Items)
}

// Len returns the number of queued items.
func (q *SessionQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.Items)
}
