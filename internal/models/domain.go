package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Manila is the clinic's time zone. The Philippines observes no DST.
var Manila = time.FixedZone("PST", 8*60*60)

const longDateLayout = "Monday, January 2, 2006"

// Date accepts "2006-01-02" or RFC 3339 timestamps from JSON.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, Manila); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.Format(time.RFC3339))
}

// Long renders the date like "Monday, January 5, 2026" in clinic time.
func (d Date) Long() string {
	if d.IsZero() {
		return ""
	}
	return d.In(Manila).Format(longDateLayout)
}

type Appointment struct {
	Date   Date   `json:"date"`
	Time   string `json:"time"`
	Doctor string `json:"doctor,omitempty"`
	Type   string `json:"type,omitempty"`
}

type Vaccination struct {
	VaccineName string `json:"vaccineName"`
	DueDate     Date   `json:"dueDate"`
}

type Checkup struct {
	Type        string `json:"type,omitempty"`
	LastCheckup Date   `json:"lastCheckup"`
}

type Prescription struct {
	Medication    string `json:"medication"`
	AvailableDate Date   `json:"availableDate"`
}

type LabResult struct {
	TestName string `json:"testName"`
}

type Alert struct {
	Message string `json:"message"`
}
