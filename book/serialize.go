package book

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/pretty"
)

// Marshal serializes b to indented JSON, pretty-printed via
// github.com/tidwall/pretty the way the CLI and preview server format all
// their JSON output.
func Marshal(b BookData) ([]byte, error) {
	raw, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("book: marshal: %w", err)
	}
	return pretty.Pretty(raw), nil
}

// Unmarshal parses a BookData document.
func Unmarshal(data []byte) (BookData, error) {
	var b BookData
	if err := json.Unmarshal(data, &b); err != nil {
		return BookData{}, fmt.Errorf("book: unmarshal: %w", err)
	}
	return b, nil
}
