package templateutil

import (
	"embed"
	"fmt"
	"html/template"
	"path"
	"time"
)

type TemplateGroup struct {
	Files []string
	Add   func(t *template.Template)
}

// percent formats a value already expressed on a 0-100 scale.
func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

func average(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func shortDate(t time.Time) string {
	return t.Format("Jan 2")
}

// clock formats a game time in seconds as m:ss.
func clock(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func ParseFS(fs embed.FS, groups []TemplateGroup) error {
	funcMap := template.FuncMap{
		"percent":   percent,
		"average":   average,
		"shortDate": shortDate,
		"clock":     clock,
	}

	for _, group := range groups {
		name := path.Base(group.Files[0])
		t := template.New(name).Funcs(funcMap)

		t, err := t.ParseFS(fs, group.Files...)
		if err != nil {
			return fmt.Errorf("parse index template: %w", err)
		}

		group.Add(t)
	}

	return nil
}
