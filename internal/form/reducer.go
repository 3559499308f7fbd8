package form

import (
	"errors"
	"strconv"
	"unicode/utf8"

	"regform/internal/geo"
	"regform/internal/registration"
)

// LookupPhoneLength is the phone length that triggers a lookup on blur. The
// value is not re-checked for digits at that point.
const LookupPhoneLength = 10

// Reduce applies ev to s and returns the next state together with the
// effects the caller must run. Reduce performs no I/O.
func Reduce(s State, ev Event) (State, []Effect) {
	switch ev := ev.(type) {
	case FieldChanged:
		return changeField(s, ev), nil
	case FieldBlurred:
		return blurField(s, ev)
	case SubmitRequested:
		return submit(s)
	case SubmitCompleted:
		return submitCompleted(s, ev), nil
	case LocateRequested:
		if !s.Editable() || s.Blocked() {
			return s, nil
		}
		return s, []Effect{LocateEffect{}}
	case LocationCompleted:
		return locationCompleted(s, ev), nil
	case LookupCompleted:
		return lookupCompleted(s, ev), nil
	case NoticeDismissed:
		s.Notice = ""
		return s, nil
	}
	return s, nil
}

func changeField(s State, ev FieldChanged) State {
	if !s.Editable() || s.Blocked() {
		return s
	}
	s.Draft = s.Draft.With(ev.Field, ev.Value)
	switch ev.Field {
	case registration.FieldAddress:
		s.AddressCharCount = s.Draft.AddressCharCount()
	case registration.FieldPassword:
		s.PasswordStrength = registration.ClassifyPassword(s.Draft.Password)
	}
	return s
}

func blurField(s State, ev FieldBlurred) (State, []Effect) {
	if ev.Field != registration.FieldPhone || !s.Editable() {
		return s, nil
	}
	if utf8.RuneCountInString(s.Draft.Phone) != LookupPhoneLength {
		return s, nil
	}
	s.LookupSeq++
	return s, []Effect{LookupEffect{Seq: s.LookupSeq, Phone: s.Draft.Phone}}
}

// LookupApplies reports whether ev would be merged into s. Failed, empty
// and stale responses are dropped, as is anything arriving after the form
// left the editing phase.
func LookupApplies(s State, ev LookupCompleted) bool {
	return ev.Err == nil && ev.Seq == s.LookupSeq && s.Editable() && len(ev.Record) > 0
}

func lookupCompleted(s State, ev LookupCompleted) State {
	if !LookupApplies(s, ev) {
		return s
	}
	s.Draft = registration.Merge(s.Draft, ev.Record)
	s.AddressCharCount = s.Draft.AddressCharCount()
	if _, ok := ev.Record[string(registration.FieldPassword)]; ok {
		s.PasswordStrength = registration.ClassifyPassword(s.Draft.Password)
	}
	return s
}

func submit(s State) (State, []Effect) {
	if !s.Editable() || s.Blocked() {
		return s, nil
	}
	errs := registration.Validate(s.Draft)
	s.Errors = errs
	if len(errs) > 0 {
		return s, nil
	}
	s.SubmitError = ""
	effect := SubmitEffect{
		Payload:    s.Draft.Payload(s.DeviceDescriptor),
		Optimistic: s.Options.SuccessMode == SuccessOptimistic,
	}
	if effect.Optimistic {
		return markSubmitted(s), []Effect{effect}
	}
	s.Phase = PhaseSubmitting
	return s, []Effect{effect}
}

func submitCompleted(s State, ev SubmitCompleted) State {
	if s.Phase != PhaseSubmitting {
		// Optimistic submissions already reported success.
		return s
	}
	if ev.Err != nil {
		s.Phase = PhaseEditing
		s.SubmitError = MessageSubmitFailed
		return s
	}
	return markSubmitted(s)
}

func markSubmitted(s State) State {
	s.Phase = PhaseSubmitted
	s.Submitted = true
	if s.Options.ResetAfterSubmit {
		s = s.reset()
	}
	return s
}

func locationCompleted(s State, ev LocationCompleted) State {
	if !s.Editable() {
		return s
	}
	if ev.Err != nil {
		if errors.Is(ev.Err, geo.ErrUnsupported) {
			s.Notice = NoticeLocationUnsupported
		} else {
			s.Notice = NoticeLocationDenied
		}
		return s
	}
	s.Draft.Latitude = strconv.FormatFloat(ev.Position.Latitude, 'f', -1, 64)
	s.Draft.Longitude = strconv.FormatFloat(ev.Position.Longitude, 'f', -1, 64)
	return s
}
