package registration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_OverwritesByKey(t *testing.T) {
	base := Draft{FullName: "Old Name", Email: "old@example.com", Address: "kept"}

	var rec Record
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": "Grace Hopper",
		"email": "grace@example.com",
		"phone": "5550001111",
		"gender": "female",
		"dob": "1906-12-09",
		"latitude": 40.7128,
		"longitude": -74.006,
		"_id": "64f0c0ffee",
		"tags": ["vip"]
	}`), &rec))

	got := Merge(base, rec)
	want := Draft{
		FullName:    "Grace Hopper",
		Email:       "grace@example.com",
		Phone:       "5550001111",
		Gender:      GenderFemale,
		DateOfBirth: "1906-12-09",
		Address:     "kept",
		Latitude:    "40.7128",
		Longitude:   "-74.006",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Merge mismatch (-want +got):\n%s", diff)
	}
}

func TestMerge_NullClearsField(t *testing.T) {
	got := Merge(Draft{Address: "12 Main St"}, Record{"address": nil})
	assert.Equal(t, "", got.Address)
}

func TestMerge_EmptyRecordIsNoop(t *testing.T) {
	d := Draft{FullName: "Ada", Phone: "5551234567"}
	assert.Equal(t, d, Merge(d, Record{}))
}

func TestMerge_CanonicalKeyWins(t *testing.T) {
	rec := Record{
		"name":        "Alias Name",
		"fullName":    "Canonical Name",
		"dob":         "1900-01-01",
		"dateOfBirth": "1906-12-09",
	}
	// Map iteration order varies between runs; the result must not.
	for i := 0; i < 50; i++ {
		got := Merge(Draft{}, rec)
		require.Equal(t, "Canonical Name", got.FullName)
		require.Equal(t, "1906-12-09", got.DateOfBirth)
	}
}

func TestMerge_OrderCoversEveryKey(t *testing.T) {
	seen := map[string]bool{}
	for _, key := range mergeOrder {
		_, ok := mergeKeys[key]
		assert.True(t, ok, "unknown key %q in merge order", key)
		assert.False(t, seen[key], "duplicate key %q in merge order", key)
		seen[key] = true
	}
	assert.Len(t, seen, len(mergeKeys))
}

func TestLoadDraft(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
full_name: Ada Lovelace
email: ada@example.com
phone: "5551234567"
gender: FEMALE
date_of_birth: "1815-12-10"
address: London
password: Engine42
confirm_password: Engine42
`), 0o644))

	d, err := LoadDraft(path)
	require.NoError(t, err)
	assert.Equal(t, GenderFemale, d.Gender)
	assert.Equal(t, "5551234567", d.Phone)
	assert.Empty(t, Validate(d))
}

func TestLoadDraft_Missing(t *testing.T) {
	_, err := LoadDraft(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDraft_Payload(t *testing.T) {
	d := Draft{FullName: "Ada", DateOfBirth: "1815-12-10", Gender: GenderOther}
	p := d.Payload("Mozilla/5.0")
	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, "1815-12-10", p.DOB)
	assert.Equal(t, "Other", p.Gender)
	assert.Equal(t, "Mozilla/5.0", p.DeviceInfo)

	raw, err := json.Marshal(p)
	require.NoError(t, err)
	var keys map[string]any
	require.NoError(t, json.Unmarshal(raw, &keys))
	for _, k := range []string{"name", "email", "phone", "gender", "dob", "address", "password", "confirmPassword", "latitude", "longitude", "deviceInfo"} {
		assert.Contains(t, keys, k)
	}
}
