// Package registration holds the customer registration draft and the pure
// rules applied to it: field validation, password strength and lookup merging.
package registration

import (
	"strings"
	"unicode/utf8"
)

// Field names a draft field. The values double as the keys of an Errors map
// and as the canonical keys accepted by Merge.
type Field string

const (
	FieldFullName        Field = "fullName"
	FieldEmail           Field = "email"
	FieldPhone           Field = "phone"
	FieldGender          Field = "gender"
	FieldDateOfBirth     Field = "dateOfBirth"
	FieldAddress         Field = "address"
	FieldPassword        Field = "password"
	FieldConfirmPassword Field = "confirmPassword"
	FieldLatitude        Field = "latitude"
	FieldLongitude       Field = "longitude"
)

// Fields lists every draft field in form order.
var Fields = []Field{
	FieldFullName,
	FieldEmail,
	FieldPhone,
	FieldGender,
	FieldDateOfBirth,
	FieldAddress,
	FieldPassword,
	FieldConfirmPassword,
	FieldLatitude,
	FieldLongitude,
}

// Gender is the optional demographic selection. The zero value is unset.
type Gender string

const (
	GenderUnset  Gender = ""
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Genders lists the selectable values in display order, unset first.
var Genders = []Gender{GenderUnset, GenderMale, GenderFemale, GenderOther}

// ParseGender maps a case-insensitive label to a Gender. Unknown labels are unset.
func ParseGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male":
		return GenderMale
	case "female":
		return GenderFemale
	case "other":
		return GenderOther
	default:
		return GenderUnset
	}
}

// Draft is the in-progress registration record.
type Draft struct {
	FullName        string `yaml:"full_name" json:"fullName" form:"fullName" validate:"notblank"`
	Email           string `yaml:"email" json:"email" form:"email" validate:"basicemail"`
	Phone           string `yaml:"phone" json:"phone" form:"phone" validate:"phone10"`
	Gender          Gender `yaml:"gender" json:"gender" form:"gender"`
	DateOfBirth     string `yaml:"date_of_birth" json:"dateOfBirth" form:"dateOfBirth" validate:"required"`
	Address         string `yaml:"address" json:"address" form:"address" validate:"notblank"`
	Password        string `yaml:"password" json:"password" form:"password" validate:"min=6"`
	ConfirmPassword string `yaml:"confirm_password" json:"confirmPassword" form:"confirmPassword" validate:"eqfield=Password"`
	Latitude        string `yaml:"latitude" json:"latitude" form:"latitude"`
	Longitude       string `yaml:"longitude" json:"longitude" form:"longitude"`
}

// Get returns the current value of field f.
func (d Draft) Get(f Field) string {
	switch f {
	case FieldFullName:
		return d.FullName
	case FieldEmail:
		return d.Email
	case FieldPhone:
		return d.Phone
	case FieldGender:
		return string(d.Gender)
	case FieldDateOfBirth:
		return d.DateOfBirth
	case FieldAddress:
		return d.Address
	case FieldPassword:
		return d.Password
	case FieldConfirmPassword:
		return d.ConfirmPassword
	case FieldLatitude:
		return d.Latitude
	case FieldLongitude:
		return d.Longitude
	}
	return ""
}

// With returns a copy of d with field f set to value. Unknown fields leave
// the draft unchanged.
func (d Draft) With(f Field, value string) Draft {
	switch f {
	case FieldFullName:
		d.FullName = value
	case FieldEmail:
		d.Email = value
	case FieldPhone:
		d.Phone = value
	case FieldGender:
		d.Gender = ParseGender(value)
	case FieldDateOfBirth:
		d.DateOfBirth = value
	case FieldAddress:
		d.Address = value
	case FieldPassword:
		d.Password = value
	case FieldConfirmPassword:
		d.ConfirmPassword = value
	case FieldLatitude:
		d.Latitude = value
	case FieldLongitude:
		d.Longitude = value
	}
	return d
}

// HasLocation reports whether both coordinates are present.
func (d Draft) HasLocation() bool {
	return d.Latitude != "" && d.Longitude != ""
}

// AddressCharCount is the number of characters in the address.
func (d Draft) AddressCharCount() int {
	return utf8.RuneCountInString(d.Address)
}

// Payload is the JSON body posted to the register endpoint.
type Payload struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Gender          string `json:"gender"`
	DOB             string `json:"dob"`
	Address         string `json:"address"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Latitude        string `json:"latitude"`
	Longitude       string `json:"longitude"`
	DeviceInfo      string `json:"deviceInfo"`
}

// Payload attaches the device descriptor to the draft fields.
func (d Draft) Payload(deviceInfo string) Payload {
	return Payload{
		Name:            d.FullName,
		Email:           d.Email,
		Phone:           d.Phone,
		Gender:          string(d.Gender),
		DOB:             d.DateOfBirth,
		Address:         d.Address,
		Password:        d.Password,
		ConfirmPassword: d.ConfirmPassword,
		Latitude:        d.Latitude,
		Longitude:       d.Longitude,
		DeviceInfo:      deviceInfo,
	}
}
