// Package domain holds the core types for the form intake pipeline.
package domain

import (
	"bytes"
	"encoding/json"
)

// RawSubmission is the untrusted field mapping decoded from a request body.
// A nil map means no body was submitted at all.
type RawSubmission map[string]any

// String returns the value for key if it is a string, or "" otherwise.
// Non-string values are treated as absent: the form contract is all-string.
func (s RawSubmission) String(key string) string {
	if v, ok := s[key].(string); ok {
		return v
	}
	return ""
}

// Truthy reports whether key holds a value a naive form filler would have
// populated: a non-empty string, true, or a non-zero number. Structured
// values count as present.
func (s RawSubmission) Truthy(key string) bool {
	switch v := s[key].(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	default:
		return true
	}
}

// Field is a single accepted, sanitized form field.
type Field struct {
	Name  string
	Value string
}

// ValidatedSubmission holds exactly the accepted, sanitized fields of a
// submission in insertion order. It is only ever fully populated: rejection
// paths never construct one.
type ValidatedSubmission struct {
	fields []Field
}

// NewValidatedSubmission returns an empty submission ready for Set calls.
func NewValidatedSubmission() *ValidatedSubmission {
	return &ValidatedSubmission{}
}

// Set appends a field, preserving insertion order. Setting an existing name
// overwrites its value in place.
func (v *ValidatedSubmission) Set(name, value string) {
	for i := range v.fields {
		if v.fields[i].Name == name {
			v.fields[i].Value = value
			return
		}
	}
	v.fields = append(v.fields, Field{Name: name, Value: value})
}

// Get returns the value for name and whether it is present.
func (v *ValidatedSubmission) Get(name string) (string, bool) {
	for _, f := range v.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Fields returns the accepted fields in insertion order.
func (v *ValidatedSubmission) Fields() []Field {
	return v.fields
}

// MarshalJSON serializes the fields as a JSON object in insertion order,
// so the persisted payload and the notification body agree on ordering.
func (v *ValidatedSubmission) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range v.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// StoredRecord is the write-once persistence shape for an accepted
// submission. Payload is the serialized ValidatedSubmission; CreatedAt is
// epoch seconds.
type StoredRecord struct {
	ID        string `json:"id" db:"id"`
	Payload   string `json:"payload" db:"payload"`
	CreatedAt int64  `json:"created_at" db:"created_at"`
}

// Notification is a single operator email dispatched by the notifier.
type Notification struct {
	Source  string   `json:"source"`
	ReplyTo []string `json:"reply_to"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}
