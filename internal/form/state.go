// Package form implements the registration form as an immutable state record
// and a pure reducer. Side effects (lookup, registration, geolocation) are
// returned as Effect values and executed by a Runner at the boundary.
package form

import (
	"regform/internal/registration"
)

// Phase is the submission state machine.
type Phase int

const (
	PhaseEditing Phase = iota
	PhaseSubmitting
	PhaseSubmitted
)

func (p Phase) String() string {
	switch p {
	case PhaseEditing:
		return "editing"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// SuccessMode decides when a submission is reported as successful.
type SuccessMode string

const (
	// SuccessConfirmed waits for the register POST before reporting success.
	SuccessConfirmed SuccessMode = "confirmed"
	// SuccessOptimistic reports success as soon as the POST is fired and only
	// logs its outcome.
	SuccessOptimistic SuccessMode = "optimistic"
)

// Options are fixed for the lifetime of a State.
type Options struct {
	SuccessMode      SuccessMode
	ResetAfterSubmit bool
}

// DefaultOptions waits for confirmation and clears the draft afterwards.
func DefaultOptions() Options {
	return Options{SuccessMode: SuccessConfirmed, ResetAfterSubmit: true}
}

// User-facing notices and messages.
const (
	NoticeLocationDenied      = "Location access denied!"
	NoticeLocationUnsupported = "Geolocation not supported"
	MessageSubmitted          = "Form submitted successfully!"
	MessageSubmitFailed       = "Registration failed. Please try again."
)

// State is the complete form state. Values are replaced wholesale by Reduce;
// never mutate a State in place.
type State struct {
	Draft            registration.Draft
	Errors           registration.Errors
	AddressCharCount int
	PasswordStrength registration.Strength
	DeviceDescriptor string
	Phase            Phase
	Submitted        bool
	SubmitError      string
	Notice           string
	LookupSeq        uint64
	Options          Options
}

// New returns the empty state created at mount. The device descriptor is
// captured here and never changes afterwards.
func New(deviceDescriptor string, opts Options) State {
	if opts.SuccessMode == "" {
		opts.SuccessMode = SuccessConfirmed
	}
	return State{
		Errors:           registration.Errors{},
		DeviceDescriptor: deviceDescriptor,
		Phase:            PhaseEditing,
		Options:          opts,
	}
}

// Editable reports whether input events are currently applied.
func (s State) Editable() bool {
	return s.Phase == PhaseEditing
}

// Blocked reports whether a notice is waiting to be dismissed.
func (s State) Blocked() bool {
	return s.Notice != ""
}

// reset clears the draft and everything derived from it. The device
// descriptor, options, lookup sequence and submitted flag survive.
func (s State) reset() State {
	s.Draft = registration.Draft{}
	s.Errors = registration.Errors{}
	s.AddressCharCount = 0
	s.PasswordStrength = registration.StrengthNone
	s.SubmitError = ""
	return s
}
