package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrIncorrectAssignment = errors.New("item must be name=value")

// Decode unmarshals a raw API response into T.
func Decode[T any](raw json.RawMessage) (*T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode %T: %w", v, err)
	}
	return &v, nil
}

// Assignment is a name=value pair typed on the command line.
type Assignment struct {
	Name  string
	Value string
}

// ParseAssignments splits each item on its first '=' and trims spaces
// around the name and value.
func ParseAssignments(items []string) ([]Assignment, error) {
	result := make([]Assignment, 0, len(items))
	for _, item := range items {
		name, value, ok := strings.Cut(item, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("%q: %w", item, ErrIncorrectAssignment)
		}
		result = append(result, Assignment{Name: name, Value: strings.TrimSpace(value)})
	}
	return result, nil
}

// AssignmentsToMap converts pairs to a JSON object. Values that parse as
// JSON scalars (true, 12, null) keep their type; everything else is a string.
func AssignmentsToMap(items []Assignment) map[string]any {
	m := make(map[string]any, len(items))
	for _, a := range items {
		var v any
		if err := json.Unmarshal([]byte(a.Value), &v); err == nil {
			switch v.(type) {
			case bool, float64, nil:
				m[a.Name] = v
				continue
			}
		}
		m[a.Name] = a.Value
	}
	return m
}
