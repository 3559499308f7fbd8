package form

import (
	"errors"
	"fmt"
	"testing"

	"regform/internal/geo"
	"regform/internal/registration"

	"github.com/google/go-cmp/cmp"
)

const testDevice = "regform/test (linux; amd64)"

func validDraft() registration.Draft {
	return registration.Draft{
		FullName:        "Ada Lovelace",
		Email:           "ada@example.com",
		Phone:           "5551234567",
		Gender:          registration.GenderFemale,
		DateOfBirth:     "1815-12-10",
		Address:         "12 St James's Square",
		Password:        "Engine1",
		ConfirmPassword: "Engine1",
	}
}

// apply feeds events through Reduce and collects every effect.
func apply(s State, events ...Event) (State, []Effect) {
	var all []Effect
	for _, ev := range events {
		var effs []Effect
		s, effs = Reduce(s, ev)
		all = append(all, effs...)
	}
	return s, all
}

func typeDraft(d registration.Draft) []Event {
	var evs []Event
	for _, f := range registration.Fields {
		if v := d.Get(f); v != "" {
			evs = append(evs, FieldChanged{Field: f, Value: v})
		}
	}
	return evs
}

func TestNew(t *testing.T) {
	s := New(testDevice, Options{})
	if s.Phase != PhaseEditing || s.Submitted {
		t.Fatalf("unexpected initial phase %v submitted=%v", s.Phase, s.Submitted)
	}
	if s.Options.SuccessMode != SuccessConfirmed {
		t.Errorf("default success mode = %q", s.Options.SuccessMode)
	}
	if diff := cmp.Diff(registration.Draft{}, s.Draft); diff != "" {
		t.Errorf("initial draft mismatch (-want +got):\n%s", diff)
	}
}

func TestReduce_DerivedFields(t *testing.T) {
	s := New(testDevice, DefaultOptions())

	s, _ = Reduce(s, FieldChanged{Field: registration.FieldAddress, Value: "Café 1"})
	if s.AddressCharCount != 6 {
		t.Errorf("AddressCharCount = %d, want 6", s.AddressCharCount)
	}

	s, _ = Reduce(s, FieldChanged{Field: registration.FieldPassword, Value: "abc"})
	if s.PasswordStrength != registration.StrengthWeak {
		t.Errorf("strength = %q, want weak", s.PasswordStrength)
	}
	s, _ = Reduce(s, FieldChanged{Field: registration.FieldPassword, Value: "Abcdef1"})
	if s.PasswordStrength != registration.StrengthStrong {
		t.Errorf("strength = %q, want strong", s.PasswordStrength)
	}

	// Other fields never touch the strength label.
	s, _ = Reduce(s, FieldChanged{Field: registration.FieldConfirmPassword, Value: "x"})
	if s.PasswordStrength != registration.StrengthStrong {
		t.Errorf("strength changed by confirmPassword: %q", s.PasswordStrength)
	}
}

func TestReduce_BlurPhone(t *testing.T) {
	tests := []struct {
		name  string
		field registration.Field
		phone string
		want  []Effect
	}{
		{"ten digits", registration.FieldPhone, "5551234567", []Effect{LookupEffect{Seq: 1, Phone: "5551234567"}}},
		{"ten non digits still looks up", registration.FieldPhone, "555-123-45", []Effect{LookupEffect{Seq: 1, Phone: "555-123-45"}}},
		{"nine digits", registration.FieldPhone, "555123456", nil},
		{"other field", registration.FieldEmail, "5551234567", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(testDevice, DefaultOptions())
			s, _ = Reduce(s, FieldChanged{Field: registration.FieldPhone, Value: tt.phone})
			_, effs := Reduce(s, FieldBlurred{Field: tt.field})
			if diff := cmp.Diff(tt.want, effs); diff != "" {
				t.Errorf("effects mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReduce_LookupMerges(t *testing.T) {
	s := New(testDevice, DefaultOptions())
	s, effs := apply(s,
		FieldChanged{Field: registration.FieldPhone, Value: "5551234567"},
		FieldBlurred{Field: registration.FieldPhone},
	)
	if len(effs) != 1 {
		t.Fatalf("expected one lookup effect, got %v", effs)
	}

	s, _ = Reduce(s, LookupCompleted{Seq: 1, Record: registration.Record{
		"fullName": "Ada Lovelace",
		"address":  "London",
		"password": "Engine1",
	}})

	want := registration.Draft{FullName: "Ada Lovelace", Phone: "5551234567", Address: "London", Password: "Engine1"}
	if diff := cmp.Diff(want, s.Draft); diff != "" {
		t.Errorf("draft mismatch (-want +got):\n%s", diff)
	}
	if s.AddressCharCount != 6 {
		t.Errorf("AddressCharCount = %d, want 6", s.AddressCharCount)
	}
	if s.PasswordStrength != registration.StrengthStrong {
		t.Errorf("strength = %q, want strong", s.PasswordStrength)
	}
}

func TestReduce_StaleLookupDiscarded(t *testing.T) {
	s := New(testDevice, DefaultOptions())
	s, effs := apply(s,
		FieldChanged{Field: registration.FieldPhone, Value: "5551234567"},
		FieldBlurred{Field: registration.FieldPhone},
		FieldChanged{Field: registration.FieldPhone, Value: "5559876543"},
		FieldBlurred{Field: registration.FieldPhone},
	)
	if len(effs) != 2 || s.LookupSeq != 2 {
		t.Fatalf("expected two lookups, got %v (seq %d)", effs, s.LookupSeq)
	}

	before := s.Draft
	s, _ = Reduce(s, LookupCompleted{Seq: 1, Record: registration.Record{"fullName": "Old Customer"}})
	if diff := cmp.Diff(before, s.Draft); diff != "" {
		t.Errorf("stale response changed draft (-want +got):\n%s", diff)
	}

	s, _ = Reduce(s, LookupCompleted{Seq: 2, Record: registration.Record{"fullName": "New Customer"}})
	if s.Draft.FullName != "New Customer" {
		t.Errorf("latest response not applied: %q", s.Draft.FullName)
	}
}

func TestReduce_FailedLookupLeavesDraft(t *testing.T) {
	s := New(testDevice, DefaultOptions())
	s, _ = apply(s, typeDraft(validDraft())...)
	s, _ = Reduce(s, FieldBlurred{Field: registration.FieldPhone})
	before := s

	after, _ := Reduce(s, LookupCompleted{Seq: s.LookupSeq, Err: errors.New("connection refused")})
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("failed lookup changed state (-want +got):\n%s", diff)
	}

	after, _ = Reduce(s, LookupCompleted{Seq: s.LookupSeq, Record: registration.Record{}})
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("empty record changed state (-want +got):\n%s", diff)
	}
}

func TestReduce_InvalidSubmit(t *testing.T) {
	d := validDraft()
	d.Password, d.ConfirmPassword = "abc", "abc"

	s := New(testDevice, DefaultOptions())
	s, effs := apply(s, append(typeDraft(d), SubmitRequested{})...)

	if len(effs) != 0 {
		t.Fatalf("invalid submit produced effects: %v", effs)
	}
	if s.Phase != PhaseEditing || s.Submitted {
		t.Errorf("phase = %v submitted = %v", s.Phase, s.Submitted)
	}
	want := registration.Errors{registration.FieldPassword: "Password must be at least 6 characters"}
	if diff := cmp.Diff(want, s.Errors); diff != "" {
		t.Errorf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestReduce_ConfirmedSubmit(t *testing.T) {
	s := New(testDevice, DefaultOptions())
	s, effs := apply(s, append(typeDraft(validDraft()), SubmitRequested{})...)

	want := []Effect{SubmitEffect{Payload: validDraft().Payload(testDevice)}}
	if diff := cmp.Diff(want, effs); diff != "" {
		t.Fatalf("effects mismatch (-want +got):\n%s", diff)
	}
	if s.Phase != PhaseSubmitting || s.Submitted {
		t.Fatalf("phase = %v submitted = %v", s.Phase, s.Submitted)
	}

	// Input and repeated submits are ignored while the POST is in flight.
	s, effs = apply(s,
		FieldChanged{Field: registration.FieldFullName, Value: "Someone Else"},
		SubmitRequested{},
	)
	if len(effs) != 0 || s.Draft.FullName != "Ada Lovelace" {
		t.Fatalf("state changed while submitting: %+v %v", s.Draft, effs)
	}

	s, _ = Reduce(s, SubmitCompleted{})
	if s.Phase != PhaseSubmitted || !s.Submitted {
		t.Fatalf("phase = %v submitted = %v", s.Phase, s.Submitted)
	}
	if diff := cmp.Diff(registration.Draft{}, s.Draft); diff != "" {
		t.Errorf("draft not reset (-want +got):\n%s", diff)
	}
	if s.AddressCharCount != 0 || s.PasswordStrength != registration.StrengthNone {
		t.Errorf("derived state not reset: count=%d strength=%q", s.AddressCharCount, s.PasswordStrength)
	}
	if s.DeviceDescriptor != testDevice {
		t.Errorf("device descriptor changed: %q", s.DeviceDescriptor)
	}

	_, effs = Reduce(s, SubmitRequested{})
	if len(effs) != 0 {
		t.Errorf("submit after success produced effects: %v", effs)
	}
}

func TestReduce_ConfirmedSubmitFailure(t *testing.T) {
	s := New(testDevice, DefaultOptions())
	s, _ = apply(s, append(typeDraft(validDraft()), SubmitRequested{})...)

	s, _ = Reduce(s, SubmitCompleted{Err: fmt.Errorf("register returned status 500")})
	if s.Phase != PhaseEditing || s.Submitted {
		t.Fatalf("phase = %v submitted = %v", s.Phase, s.Submitted)
	}
	if s.SubmitError != MessageSubmitFailed {
		t.Errorf("SubmitError = %q", s.SubmitError)
	}
	if diff := cmp.Diff(validDraft(), s.Draft); diff != "" {
		t.Errorf("draft lost on failure (-want +got):\n%s", diff)
	}

	// Retrying clears the error and fires again.
	s, effs := Reduce(s, SubmitRequested{})
	if len(effs) != 1 || s.SubmitError != "" {
		t.Errorf("retry: effects=%v SubmitError=%q", effs, s.SubmitError)
	}
}

func TestReduce_OptimisticSubmit(t *testing.T) {
	s := New(testDevice, Options{SuccessMode: SuccessOptimistic, ResetAfterSubmit: true})
	s, effs := apply(s, append(typeDraft(validDraft()), SubmitRequested{})...)

	want := []Effect{SubmitEffect{Payload: validDraft().Payload(testDevice), Optimistic: true}}
	if diff := cmp.Diff(want, effs); diff != "" {
		t.Fatalf("effects mismatch (-want +got):\n%s", diff)
	}
	if s.Phase != PhaseSubmitted || !s.Submitted {
		t.Fatalf("phase = %v submitted = %v", s.Phase, s.Submitted)
	}

	// The POST failing afterwards changes nothing.
	after, _ := Reduce(s, SubmitCompleted{Err: errors.New("boom")})
	if diff := cmp.Diff(s, after); diff != "" {
		t.Errorf("late failure changed state (-want +got):\n%s", diff)
	}
}

func TestReduce_KeepDraftAfterSubmit(t *testing.T) {
	s := New(testDevice, Options{SuccessMode: SuccessConfirmed, ResetAfterSubmit: false})
	s, _ = apply(s, append(typeDraft(validDraft()), SubmitRequested{}, SubmitCompleted{})...)

	if !s.Submitted {
		t.Fatal("expected submitted")
	}
	if diff := cmp.Diff(validDraft(), s.Draft); diff != "" {
		t.Errorf("draft mismatch (-want +got):\n%s", diff)
	}
}

func TestReduce_LookupAfterSubmitIgnored(t *testing.T) {
	s := New(testDevice, Options{SuccessMode: SuccessOptimistic})
	s, _ = apply(s, typeDraft(validDraft())...)
	s, _ = Reduce(s, FieldBlurred{Field: registration.FieldPhone})
	s, _ = Reduce(s, SubmitRequested{})

	after, _ := Reduce(s, LookupCompleted{Seq: s.LookupSeq, Record: registration.Record{"fullName": "Late"}})
	if after.Draft.FullName != s.Draft.FullName {
		t.Errorf("lookup applied after submit: %q", after.Draft.FullName)
	}
}

func TestReduce_Location(t *testing.T) {
	tests := []struct {
		name       string
		ev         LocationCompleted
		wantNotice string
		wantLat    string
		wantLon    string
	}{
		{"success", LocationCompleted{Position: geo.Position{Latitude: 51.5, Longitude: -0.125}}, "", "51.5", "-0.125"},
		{"denied", LocationCompleted{Err: geo.ErrDenied}, NoticeLocationDenied, "", ""},
		{"timeout counts as denied", LocationCompleted{Err: fmt.Errorf("locate: %w", errors.New("deadline"))}, NoticeLocationDenied, "", ""},
		{"unsupported", LocationCompleted{Err: fmt.Errorf("terminal: %w", geo.ErrUnsupported)}, NoticeLocationUnsupported, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(testDevice, DefaultOptions())
			s, effs := Reduce(s, LocateRequested{})
			if diff := cmp.Diff([]Effect{LocateEffect{}}, effs); diff != "" {
				t.Fatalf("effects mismatch (-want +got):\n%s", diff)
			}
			s, _ = Reduce(s, tt.ev)
			if s.Notice != tt.wantNotice {
				t.Errorf("Notice = %q, want %q", s.Notice, tt.wantNotice)
			}
			if s.Draft.Latitude != tt.wantLat || s.Draft.Longitude != tt.wantLon {
				t.Errorf("coords = %q,%q want %q,%q", s.Draft.Latitude, s.Draft.Longitude, tt.wantLat, tt.wantLon)
			}
		})
	}
}

func TestReduce_NoticeBlocksInput(t *testing.T) {
	s := New(testDevice, DefaultOptions())
	s, _ = Reduce(s, LocationCompleted{Err: geo.ErrDenied})
	if !s.Blocked() {
		t.Fatal("expected blocking notice")
	}

	s, effs := apply(s,
		FieldChanged{Field: registration.FieldFullName, Value: "Ada"},
		LocateRequested{},
		SubmitRequested{},
	)
	if s.Draft.FullName != "" || len(effs) != 0 {
		t.Errorf("input applied while blocked: %q %v", s.Draft.FullName, effs)
	}

	s, _ = Reduce(s, NoticeDismissed{})
	s, _ = Reduce(s, FieldChanged{Field: registration.FieldFullName, Value: "Ada"})
	if s.Draft.FullName != "Ada" {
		t.Errorf("input ignored after dismiss: %q", s.Draft.FullName)
	}
}
