package domain

// Event is a one-shot mutation scheduled for an absolute month. Its lifecycle
// is pending -> fired, with fired terminal: the Executed flag guarantees
// at-most-once application even if the engine revisits the trigger month.
// An event whose trigger month is never reached simply never fires; there is
// no catch-up.
type Event struct {
	Name         string `json:"name"`
	TriggerMonth int    `json:"trigger_month"` // absolute month index, 0-based
	Action       Action `json:"action"`
	Executed     bool   `json:"executed"`
}

// NewEvent creates a pending event.
func NewEvent(name string, triggerMonth int, action Action) *Event {
	return &Event{Name: name, TriggerMonth: triggerMonth, Action: action}
}

// ShouldFire reports whether the event fires at the given month. The caller
// applies the action and then marks the event fired.
func (e *Event) ShouldFire(month int) bool {
	return !e.Executed && month == e.TriggerMonth
}
