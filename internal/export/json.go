package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/go-cmp/cmp"

	"github.com/stacklok/prefsnap/internal/prefs"
)

// renderJSON encodes entries as a compact array and verifies that the result
// decodes back to the same entries.
func renderJSON(entries []prefs.Entry) (string, error) {
	if entries == nil {
		entries = []prefs.Entry{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(entries); err != nil {
		return "", fmt.Errorf("failed to encode entries: %w", err)
	}
	out := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))

	if err := verifyRoundTrip(out, entries); err != nil {
		return "", err
	}
	return string(out), nil
}

func verifyRoundTrip(data []byte, entries []prefs.Entry) error {
	var decoded []prefs.Entry
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("%w: %v", ErrRoundTrip, err)
	}
	if diff := cmp.Diff(entries, decoded, cmp.Comparer(sameEncoding)); diff != "" {
		return fmt.Errorf("%w (-source +decoded):\n%s", ErrRoundTrip, diff)
	}
	return nil
}

// sameEncoding compares values as the json format writes them. A string whose
// text is a sentinel token and the sentinel itself encode identically.
func sameEncoding(a, b prefs.Value) bool {
	if a.Equal(b) {
		return true
	}
	textual := func(v prefs.Value) bool {
		return v.Kind() == prefs.KindString || v.IsSentinel()
	}
	return textual(a) && textual(b) && a.String() == b.String()
}

// ParseJSON decodes output produced by the json format.
func ParseJSON(data string) ([]prefs.Entry, error) {
	var entries []prefs.Entry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, fmt.Errorf("failed to decode entries: %w", err)
	}
	return entries, nil
}
