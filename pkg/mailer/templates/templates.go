// Package templates renders the transactional mails sent by the email
// worker. Each template name has a subject, a text and an html part embedded
// from this directory.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	"reflect"
	"strings"
	"sync"
	texttpl "text/template"
)

//go:embed *.tmpl
var FS embed.FS

const (
	Welcome        = "welcome"
	ProfileUpdated = "profile_updated"
	AccountDeleted = "account_deleted"
)

// Known reports whether name has a template set.
func Known(name string) bool {
	switch name {
	case Welcome, ProfileUpdated, AccountDeleted:
		return true
	}
	return false
}

// orDefault backs {{ .Name | default "there" }}.
func orDefault(fallback, value any) any {
	if s, ok := value.(string); ok {
		if strings.TrimSpace(s) == "" {
			return fallback
		}
		return s
	}
	if value == nil || reflect.ValueOf(value).IsZero() {
		return fallback
	}
	return value
}

var funcs = map[string]any{
	"default": orDefault,
	"upper":   strings.ToUpper,
}

type set struct {
	subject *texttpl.Template
	text    *texttpl.Template
	html    *htmpl.Template
}

var (
	parseOnce sync.Once
	sets      map[string]*set
	parseErr  error
)

func load() (map[string]*set, error) {
	parseOnce.Do(func() {
		sets = make(map[string]*set, 3)
		for _, name := range []string{Welcome, ProfileUpdated, AccountDeleted} {
			s := &set{}
			if s.subject, parseErr = parseText(name + ".subject.tmpl"); parseErr != nil {
				return
			}
			if s.text, parseErr = parseText(name + ".text.tmpl"); parseErr != nil {
				return
			}
			file := name + ".html.tmpl"
			s.html, parseErr = htmpl.New(file).Funcs(funcs).ParseFS(FS, file)
			if parseErr != nil {
				parseErr = fmt.Errorf("parse %q: %w", file, parseErr)
				return
			}
			sets[name] = s
		}
	})
	return sets, parseErr
}

func parseText(file string) (*texttpl.Template, error) {
	t, err := texttpl.New(file).Funcs(funcs).ParseFS(FS, file)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", file, err)
	}
	return t, nil
}

// Render executes the subject, text and html parts of the named template.
func Render(name string, data any) (subject, text, html string, err error) {
	all, err := load()
	if err != nil {
		return "", "", "", err
	}
	s, ok := all[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown template %q", name)
	}

	var b bytes.Buffer
	if err = s.subject.Execute(&b, data); err != nil {
		return "", "", "", fmt.Errorf("exec %s subject: %w", name, err)
	}
	subject = strings.TrimSpace(b.String())

	b.Reset()
	if err = s.text.Execute(&b, data); err != nil {
		return "", "", "", fmt.Errorf("exec %s text: %w", name, err)
	}
	text = b.String()

	b.Reset()
	if err = s.html.Execute(&b, data); err != nil {
		return "", "", "", fmt.Errorf("exec %s html: %w", name, err)
	}
	return subject, text, b.String(), nil
}
