package templates

import (
	"encoding/json"
	"time"
)

// EmailData defines standard fields for email templates.
type EmailData struct {
	Name    string            `json:"Name"`
	Email   string            `json:"Email"`
	AppName string            `json:"AppName"`
	Time    string            `json:"Time"`
	Changes map[string]string `json:"Changes,omitempty"`
}

// Option pattern
type Option func(*EmailData)

func WithAppName(name string) Option { return func(d *EmailData) { d.AppName = name } }

func WithTime(t time.Time) Option {
	return func(d *EmailData) { d.Time = t.UTC().Format("02 January 2006, 15:04") }
}

func WithChanges(ch map[string]string) Option {
	return func(d *EmailData) {
		if len(ch) > 0 {
			d.Changes = ch
		}
	}
}

// NewEmailData fills the recipient fields, stamps the current time and
// applies opts.
func NewEmailData(name, email string, opts ...Option) EmailData {
	d := EmailData{Name: name, Email: email}
	WithTime(time.Now())(&d)
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// ToMap converts EmailData to a map[string]any for EmailJob.Data
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}
