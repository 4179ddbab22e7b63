package edition

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Mapping is a static identifier table (PIN or label to edition id candidate)
type Mapping map[string]string

// ParseMapping decodes a mapping from either a JSON object
// ({"PIN123":"1","PIN456":2}) or comma separated KEY:VALUE pairs
// (PIN123:1,PIN456:2). An empty input yields an empty mapping.
// Malformed input is an error; nothing is skipped silently.
func ParseMapping(raw string) (Mapping, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Mapping{}, nil
	}

	if strings.HasPrefix(raw, "{") {
		return parseJSONMapping(raw)
	}

	return parseCSVMapping(raw)
}

// parseJSONMapping walks the object token by token so repeated keys are
// rejected instead of the last one winning.
func parseJSONMapping(raw string) (Mapping, error) {
	decoder := json.NewDecoder(strings.NewReader(raw))
	decoder.UseNumber()

	if tok, err := decoder.Token(); err != nil || tok != json.Delim('{') {
		return nil, fmt.Errorf("failed to decode JSON mapping: expected an object")
	}

	out := make(Mapping)
	for decoder.More() {
		tok, err := decoder.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to decode JSON mapping: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("failed to decode JSON mapping: unexpected %v", tok)
		}
		if strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("empty key in JSON mapping")
		}
		if _, exists := out[key]; exists {
			return nil, fmt.Errorf("duplicate mapping key %q", key)
		}

		var value interface{}
		if err := decoder.Decode(&value); err != nil {
			return nil, fmt.Errorf("failed to decode JSON mapping: %w", err)
		}

		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) == "" {
				return nil, fmt.Errorf("empty value for key %q", key)
			}
			out[key] = strings.TrimSpace(v)
		case json.Number:
			if _, err := strconv.ParseUint(v.String(), 10, 64); err != nil {
				return nil, fmt.Errorf("value for key %q is not a non-negative integer: %s", key, v)
			}
			out[key] = v.String()
		default:
			return nil, fmt.Errorf("value for key %q must be a string or integer", key)
		}
	}

	if _, err := decoder.Token(); err != nil {
		return nil, fmt.Errorf("failed to decode JSON mapping: %w", err)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode JSON mapping: trailing data")
	}

	return out, nil
}

func parseCSVMapping(raw string) (Mapping, error) {
	out := make(Mapping)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		kv := strings.Split(part, ":")
		if len(kv) != 2 {
			return nil, fmt.Errorf("malformed mapping pair %q: expected KEY:VALUE", part)
		}

		key := strings.TrimSpace(kv[0])
		value := strings.TrimSpace(kv[1])
		if key == "" || value == "" {
			return nil, fmt.Errorf("malformed mapping pair %q: empty key or value", part)
		}
		if _, exists := out[key]; exists {
			return nil, fmt.Errorf("duplicate mapping key %q", key)
		}

		out[key] = value
	}

	return out, nil
}

// Keys returns the mapping keys in sorted order
func (m Mapping) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a copy that the caller may mutate
func (m Mapping) Clone() Mapping {
	out := make(Mapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// String renders the mapping in the CSV form accepted by ParseMapping
func (m Mapping) String() string {
	var buf bytes.Buffer
	for i, k := range m.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(k)
		buf.WriteByte(':')
		buf.WriteString(m[k])
	}
	return buf.String()
}
