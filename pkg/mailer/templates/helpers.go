package templates

import (
	"time"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

func WithActor(name, email string) Option {
	return func(d *EmailData) {
		d.ActorName = name
		d.ActorEmail = email
	}
}

func WithGroup(name string) Option   { return func(d *EmailData) { d.GroupName = name } }
func WithActionURL(u string) Option  { return func(d *EmailData) { d.ActionURL = u } }
func WithAppName(name string) Option { return func(d *EmailData) { d.AppName = name } }

// New builds template data for a notification of the given type addressed to name/email
func New(typ, name, email string, opts ...Option) map[string]any {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: email,
		Type:           typ,
	}
	for _, o := range opts {
		o(&d)
	}
	return ToMap(d)
}
