package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// PatientID accepts both string and numeric ids from JSON.
type PatientID string

func (p *PatientID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = PatientID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = PatientID(n.String())
	return nil
}

// Patient is the read-only view of a clinic patient the notifier needs.
type Patient struct {
	ID            PatientID `json:"id"`
	Name          string    `json:"name,omitempty"`
	FirstName     string    `json:"firstName,omitempty"`
	LastName      string    `json:"lastName,omitempty"`
	ContactNumber string    `json:"contactNumber,omitempty"`
	Email         string    `json:"email,omitempty"`
}

// FullName prefers the explicit name, else first and last name.
func (p Patient) FullName() string {
	if name := strings.TrimSpace(p.Name); name != "" {
		return name
	}
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}
