package registration

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() Draft {
	return Draft{
		FullName:        "Ada Lovelace",
		Email:           "ada@example.com",
		Phone:           "5551234567",
		Gender:          GenderFemale,
		DateOfBirth:     "1815-12-10",
		Address:         "12 St James's Square, London",
		Password:        "Engine42",
		ConfirmPassword: "Engine42",
	}
}

func TestValidate_ValidDraft(t *testing.T) {
	errs := Validate(validDraft())
	assert.Empty(t, errs)
	assert.NoError(t, errs.Err())
}

func TestValidate_RequiredFields(t *testing.T) {
	cases := []struct {
		name  string
		field Field
		value string
	}{
		{"empty full name", FieldFullName, ""},
		{"blank full name", FieldFullName, "   \t"},
		{"empty date of birth", FieldDateOfBirth, ""},
		{"empty address", FieldAddress, ""},
		{"blank address", FieldAddress, "\n  "},
		{"empty email", FieldEmail, ""},
		{"empty phone", FieldPhone, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validDraft().With(tc.field, tc.value)
			errs := Validate(d)
			assert.True(t, errs.Has(tc.field), "expected %s to fail", tc.field)
			assert.Equal(t, Messages[tc.field], errs[tc.field])
			assert.Len(t, errs, 1)
		})
	}
}

func TestValidate_Email(t *testing.T) {
	for _, bad := range []string{"plainaddress", "a@b", "a@@b.co", "a b@c.co", "@b.co", "a@.co.", "a.b@c"} {
		d := validDraft()
		d.Email = bad
		assert.True(t, Validate(d).Has(FieldEmail), "expected %q to be rejected", bad)
	}
	for _, good := range []string{"a@b.co", "first.last@sub.example.org"} {
		d := validDraft()
		d.Email = good
		assert.False(t, Validate(d).Has(FieldEmail), "expected %q to be accepted", good)
	}
}

func TestValidate_Phone(t *testing.T) {
	for _, bad := range []string{"123", "12345678901", "abcdefghij", "555-123-45", " 555123456", "５５５１２３４５６７"} {
		d := validDraft()
		d.Phone = bad
		assert.True(t, Validate(d).Has(FieldPhone), "expected %q to be rejected", bad)
	}
	d := validDraft()
	d.Phone = "0123456789"
	assert.False(t, Validate(d).Has(FieldPhone))
}

func TestValidate_PasswordLength(t *testing.T) {
	d := validDraft()
	d.Password = "abc"
	d.ConfirmPassword = "abc"
	errs := Validate(d)
	assert.True(t, errs.Has(FieldPassword))
	assert.False(t, errs.Has(FieldConfirmPassword), "confirm matches, so only the length rule fails")
}

func TestValidate_ConfirmPasswordIndependentOfLength(t *testing.T) {
	cases := []struct {
		password, confirm string
		wantMismatch      bool
	}{
		{"abc", "abd", true},
		{"abc", "abc", false},
		{"Engine42", "engine42", true},
		{"", "", false},
		{"Engine42", "", true},
	}
	for _, tc := range cases {
		d := validDraft()
		d.Password = tc.password
		d.ConfirmPassword = tc.confirm
		assert.Equal(t, tc.wantMismatch, Validate(d).Has(FieldConfirmPassword), "password=%q confirm=%q", tc.password, tc.confirm)
	}
}

func TestValidate_GenderNeverValidated(t *testing.T) {
	d := validDraft()
	d.Gender = GenderUnset
	assert.Empty(t, Validate(d))
}

func TestValidate_EmptyDraftReportsEveryRequiredField(t *testing.T) {
	errs := Validate(Draft{})
	assert.Equal(t, []Field{
		FieldFullName,
		FieldEmail,
		FieldPhone,
		FieldDateOfBirth,
		FieldAddress,
		FieldPassword,
	}, errs.Fields())
}

func TestErrors_Err(t *testing.T) {
	errs := Validate(Draft{FullName: "x"})
	err := errs.Err()
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, errs, ve.Errors)
	assert.True(t, strings.HasPrefix(err.Error(), "invalid registration: email:"))
}
