package item

// StatusMetadata is implemented by metadata values that report processing
// status for an item: which component produced the status and a message.
// The three concrete types (InfoStatus, WarningStatus, ErrorStatus) are
// distinct so that stages can select a severity by metadata type.
type StatusMetadata interface {
	// StatusComponent returns the ID of the component that produced the status.
	StatusComponent() string

	// StatusMessage returns the status message.
	StatusMessage() string
}

// status is the shared representation embedded by the concrete status types.
type status struct {
	component string
	message   string
}

func (s status) StatusComponent() string { return s.component }
func (s status) StatusMessage() string   { return s.message }

// InfoStatus records purely informational processing status.
type InfoStatus struct{ status }

// NewInfoStatus returns an InfoStatus for the given component and message.
func NewInfoStatus(component, message string) InfoStatus {
	return InfoStatus{status{component: component, message: message}}
}

// WarningStatus records a condition that did not stop processing but that
// an operator should know about.
type WarningStatus struct{ status }

// NewWarningStatus returns a WarningStatus for the given component and message.
func NewWarningStatus(component, message string) WarningStatus {
	return WarningStatus{status{component: component, message: message}}
}

// ErrorStatus records a condition that makes the item unfit for further
// use. Downstream stages typically filter or terminate on it.
type ErrorStatus struct{ status }

// NewErrorStatus returns an ErrorStatus for the given component and message.
func NewErrorStatus(component, message string) ErrorStatus {
	return ErrorStatus{status{component: component, message: message}}
}
