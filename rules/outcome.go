package rules

// Outcome is the result of validating one value: either Accepted with the
// value or Rejected with a user-facing message. The zero value is a rejection
// with an empty message and should not be produced by validators.
type Outcome struct {
	accepted bool
	value    string
	message  string
}

// Accepted builds a successful outcome carrying value.
func Accepted(value string) Outcome {
	return Outcome{accepted: true, value: value}
}

// Rejected builds a failed outcome carrying a human-readable message.
func Rejected(message string) Outcome {
	return Outcome{message: message}
}

// IsAccepted reports whether the value passed validation.
func (o Outcome) IsAccepted() bool {
	return o.accepted
}

// Value returns the accepted value, or "" for rejections.
func (o Outcome) Value() string {
	if !o.accepted {
		return ""
	}
	return o.value
}

// Message returns the rejection message, or "" for accepted outcomes.
func (o Outcome) Message() string {
	if o.accepted {
		return ""
	}
	return o.message
}

func (o Outcome) String() string {
	if o.accepted {
		return "accepted"
	}
	return "rejected: " + o.message
}
