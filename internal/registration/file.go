package registration

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadDraft reads a draft from a YAML file. Gender labels are normalised
// the same way the interactive selector does it.
func LoadDraft(path string) (Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Draft{}, fmt.Errorf("failed to read draft: %w", err)
	}
	var d Draft
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Draft{}, fmt.Errorf("failed to parse draft %s: %w", path, err)
	}
	d.Gender = ParseGender(string(d.Gender))
	return d, nil
}
