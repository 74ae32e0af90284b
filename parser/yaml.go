package parser

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/playproof/playproof/playbook"
)

// FromYAML parses a playbook from YAML bytes and runs the construction
// gate. The logical schema matches FromJSON.
func FromYAML(data []byte) (*playbook.Playbook, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return doc.build()
}
