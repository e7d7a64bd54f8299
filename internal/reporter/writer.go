// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package reporter

import (
	"fmt"
	"io"

	"github.com/tomtom215/velorank/internal/database"
)

// Report formats selectable through REPORT_FORMAT.
const (
	FormatNull = "null"
	FormatText = "text"
	FormatHTML = "html"
)

// Writer is a report sink. Generate drives it in a fixed order: one
// BeginRoster/UpgradeRow*/EndRoster block, then one
// BeginPerson/PointRow*/EndPerson block per rider, then Flush.
type Writer interface {
	BeginRoster(discipline string) error
	UpgradeRow(entry database.RosterEntry) error
	EndRoster() error
	BeginPerson(entry database.HistoryEntry) error
	PointRow(entry database.HistoryEntry) error
	EndPerson() error
	Flush() error
}

// NewWriter returns the sink for a format string. The empty format
// maps to the null sink.
func NewWriter(format string, out io.Writer) (Writer, error) {
	switch format {
	case "", FormatNull:
		return Null{}, nil
	case FormatText:
		return NewText(out), nil
	case FormatHTML:
		return NewHTML(out), nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// Null discards the report. It keeps report generation callable in
// deployments that only want the logs and metrics.
type Null struct{}

func (Null) BeginRoster(string) error              { return nil }
func (Null) UpgradeRow(database.RosterEntry) error { return nil }
func (Null) EndRoster() error                      { return nil }

func (Null) BeginPerson(database.HistoryEntry) error { return nil }
func (Null) PointRow(database.HistoryEntry) error    { return nil }
func (Null) EndPerson() error                        { return nil }

func (Null) Flush() error { return nil }
