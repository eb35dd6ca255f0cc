package usecase

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// stripFence removes markdown code fencing some models wrap around JSON
// payloads even in structured-output mode.
func stripFence(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// flexInt tolerates the looseness of model-emitted JSON: numbers may
// arrive as floats, numeric strings, or be missing entirely. Anything
// unparseable defaults to 0 instead of failing the whole response.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	*f = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*f = flexInt(n)
		}
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return nil
	}
	*f = flexInt(n)
	return nil
}
