package parser

import (
	"encoding/json"
	"fmt"

	"github.com/playproof/playproof/playbook"
)

// FromJSON parses a playbook from JSON bytes and runs the construction
// gate. Decode errors and structural errors both yield a nil playbook.
func FromJSON(data []byte) (*playbook.Playbook, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return doc.build()
}

// ToJSON serializes a playbook to indented JSON.
func ToJSON(pb *playbook.Playbook) ([]byte, error) {
	return json.MarshalIndent(pb, "", "  ")
}
