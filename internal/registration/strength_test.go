package registration

import "testing"

func TestClassifyPassword(t *testing.T) {
	tests := []struct {
		password string
		want     Strength
	}{
		{"", StrengthWeak},
		{"abc", StrengthWeak},
		{"Ab1de", StrengthWeak},
		{"abcdef", StrengthModerate},
		{"ABCDEF", StrengthModerate},
		{"abcde1", StrengthModerate},
		{"Abcdef1", StrengthStrong},
		{"ABC123", StrengthStrong},
		{"Ébcdé1", StrengthModerate},
	}
	for _, tt := range tests {
		if got := ClassifyPassword(tt.password); got != tt.want {
			t.Errorf("ClassifyPassword(%q) = %q, want %q", tt.password, got, tt.want)
		}
	}
}
