package dom

// Event is delivered to listeners registered with AddEventListener.
type Event struct {
	// Type is the event name without the "on" prefix ("click", "input").
	Type string

	// Target is the element the event was dispatched on.
	Target Element

	// Value carries the new field value for input-like events.
	Value string
}
