// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package reporter

import (
	"html/template"
	"io"

	"github.com/tomtom215/velorank/internal/database"
	"github.com/tomtom215/velorank/internal/models"
)

// reportTemplates holds the HTML fragments the sink stitches together.
// html/template escapes every interpolated value, which matters because
// rider and team names arrive from a scraped site.
var reportTemplates = template.Must(template.New("report").Parse(`
{{- define "prelude" -}}
<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Upgrade report</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 1.5em; }
th, td { border: 1px solid #ccc; padding: 0.3em 0.6em; text-align: left; }
th { background: #f0f0f0; }
</style>
</head>
<body>
{{- end -}}

{{- define "rosterBegin" -}}
<h2>{{.}} upgrades due</h2>
<table>
<tr><th>Cat</th><th>Points</th><th>Name</th><th>Last race</th><th>Notes</th></tr>
{{- end -}}

{{- define "rosterRow" -}}
<tr><td>{{.Category}}</td><td>{{.Points}}</td><td>{{.Name}}</td><td>{{.LastRace}}</td><td>{{.Notes}}</td></tr>
{{- end -}}

{{- define "rosterEnd" -}}
</table>
{{- end -}}

{{- define "personBegin" -}}
<h3>{{.Name}}{{if .Team}} &mdash; {{.Team}}{{end}}</h3>
<table>
<tr><th>Date</th><th>Place</th><th>Event</th><th>Points</th><th>Total</th><th>Cat</th><th>Notes</th></tr>
{{- end -}}

{{- define "pointRow" -}}
<tr><td>{{.Date}}</td><td>{{.Place}}</td><td>{{.Event}}</td><td>{{.Points}}</td><td>{{.Total}}</td><td>{{.Categories}}</td><td>{{.Notes}}</td></tr>
{{- end -}}

{{- define "personEnd" -}}
</table>
{{- end -}}

{{- define "postlude" -}}
</body>
</html>
{{- end -}}
`))

// HTML renders the report as a standalone HTML page.
type HTML struct {
	out     io.Writer
	started bool
}

// NewHTML returns an HTML sink writing to out.
func NewHTML(out io.Writer) *HTML {
	return &HTML{out: out}
}

func (h *HTML) prelude() error {
	if h.started {
		return nil
	}
	h.started = true
	return reportTemplates.ExecuteTemplate(h.out, "prelude", nil)
}

// BeginRoster opens the roster table.
func (h *HTML) BeginRoster(discipline string) error {
	if err := h.prelude(); err != nil {
		return err
	}
	return reportTemplates.ExecuteTemplate(h.out, "rosterBegin",
		models.DisciplineDisplayName(discipline))
}

// UpgradeRow emits one rider due for an upgrade.
func (h *HTML) UpgradeRow(e database.RosterEntry) error {
	return reportTemplates.ExecuteTemplate(h.out, "rosterRow", map[string]any{
		"Category": e.SumCategories.Min(),
		"Points":   e.SumValue,
		"Name":     models.TitleName(e.FirstName + " " + e.LastName),
		"LastRace": e.RaceDate.String(),
		"Notes":    e.Notes,
	})
}

// EndRoster closes the roster table.
func (h *HTML) EndRoster() error {
	return reportTemplates.ExecuteTemplate(h.out, "rosterEnd", nil)
}

// BeginPerson opens one rider's history table.
func (h *HTML) BeginPerson(e database.HistoryEntry) error {
	if err := h.prelude(); err != nil {
		return err
	}
	return reportTemplates.ExecuteTemplate(h.out, "personBegin", map[string]any{
		"Name": models.TitleName(e.FirstName + " " + e.LastName),
		"Team": e.TeamName,
	})
}

// PointRow emits one points row in the rider's history.
func (h *HTML) PointRow(e database.HistoryEntry) error {
	event := e.EventName
	if e.RaceName != "" {
		event += ": " + e.RaceName
	}
	return reportTemplates.ExecuteTemplate(h.out, "pointRow", map[string]any{
		"Date":       e.RaceDate.String(),
		"Place":      e.Place,
		"Event":      event,
		"Points":     e.Value,
		"Total":      e.SumValue,
		"Categories": []int(e.SumCategories),
		"Notes":      e.Notes,
	})
}

// EndPerson closes the rider's history table.
func (h *HTML) EndPerson() error {
	return reportTemplates.ExecuteTemplate(h.out, "personEnd", nil)
}

// Flush closes the page.
func (h *HTML) Flush() error {
	if err := h.prelude(); err != nil {
		return err
	}
	return reportTemplates.ExecuteTemplate(h.out, "postlude", nil)
}
