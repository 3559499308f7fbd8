package registration

import (
	"encoding/json"
	"strconv"
)

// mergeKeys maps every key a lookup record may carry onto a draft field.
// The register payload spells some fields differently, so both forms are
// accepted.
var mergeKeys = map[string]Field{
	"fullName":        FieldFullName,
	"name":            FieldFullName,
	"email":           FieldEmail,
	"phone":           FieldPhone,
	"gender":          FieldGender,
	"dateOfBirth":     FieldDateOfBirth,
	"dob":             FieldDateOfBirth,
	"address":         FieldAddress,
	"password":        FieldPassword,
	"confirmPassword": FieldConfirmPassword,
	"latitude":        FieldLatitude,
	"longitude":       FieldLongitude,
}

// mergeOrder is the order Merge applies keys in. Aliases come before the
// canonical spelling so a record carrying both always ends up with the
// canonical value.
var mergeOrder = []string{
	"name", "fullName",
	"email",
	"phone",
	"gender",
	"dob", "dateOfBirth",
	"address",
	"password",
	"confirmPassword",
	"latitude",
	"longitude",
}

// Record is a decoded lookup response: any JSON object.
type Record map[string]any

// Merge overwrites draft fields with the values in rec. Unknown keys and
// values of a composite type are ignored; null clears the field. When a
// record carries both spellings of a field the canonical key wins.
func Merge(d Draft, rec Record) Draft {
	for _, key := range mergeOrder {
		raw, ok := rec[key]
		if !ok {
			continue
		}
		f := mergeKeys[key]
		value, ok := scalarString(raw)
		if !ok {
			continue
		}
		d = d.With(f, value)
	}
	return d
}

func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", true
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case json.Number:
		return t.String(), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	default:
		return "", false
	}
}
