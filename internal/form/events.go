package form

import (
	"regform/internal/geo"
	"regform/internal/registration"
)

// Event is an input to Reduce.
type Event interface {
	isEvent()
}

// FieldChanged is a keystroke or selection in one field.
type FieldChanged struct {
	Field registration.Field
	Value string
}

// FieldBlurred is the loss of focus of one field.
type FieldBlurred struct {
	Field registration.Field
}

// SubmitRequested is the form-submit action.
type SubmitRequested struct{}

// LocateRequested is the explicit "use my location" action.
type LocateRequested struct{}

// NoticeDismissed closes the blocking notice.
type NoticeDismissed struct{}

// LookupCompleted carries the outcome of the lookup issued with Seq.
type LookupCompleted struct {
	Seq    uint64
	Record registration.Record
	Err    error
}

// SubmitCompleted carries the outcome of the register POST.
type SubmitCompleted struct {
	Err error
}

// LocationCompleted carries the outcome of a geolocation request.
type LocationCompleted struct {
	Position geo.Position
	Err      error
}

func (FieldChanged) isEvent()      {}
func (FieldBlurred) isEvent()      {}
func (SubmitRequested) isEvent()   {}
func (LocateRequested) isEvent()   {}
func (NoticeDismissed) isEvent()   {}
func (LookupCompleted) isEvent()   {}
func (SubmitCompleted) isEvent()   {}
func (LocationCompleted) isEvent() {}

// Effect describes a side effect requested by Reduce.
type Effect interface {
	isEffect()
}

// LookupEffect asks for GET /customer/{Phone}.
type LookupEffect struct {
	Seq   uint64
	Phone string
}

// SubmitEffect asks for POST /register.
type SubmitEffect struct {
	Payload registration.Payload
	// Optimistic is set when the state already reports success; the result
	// is then for the diagnostic log only.
	Optimistic bool
}

// LocateEffect asks the host for one position reading.
type LocateEffect struct{}

func (LookupEffect) isEffect() {}
func (SubmitEffect) isEffect() {}
func (LocateEffect) isEffect() {}
