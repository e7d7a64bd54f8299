// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package reporter

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/tomtom215/velorank/internal/database"
	"github.com/tomtom215/velorank/internal/models"
)

// Text renders the report as column-aligned plain text.
type Text struct {
	out io.Writer
	tab *tabwriter.Writer
}

// NewText returns a Text sink writing to out.
func NewText(out io.Writer) *Text {
	return &Text{out: out}
}

func (t *Text) section() *tabwriter.Writer {
	t.tab = tabwriter.NewWriter(t.out, 0, 8, 2, ' ', 0)
	return t.tab
}

// BeginRoster prints the discipline header and roster column names.
func (t *Text) BeginRoster(discipline string) error {
	if _, err := fmt.Fprintf(t.out, "%s upgrades due\n\n", models.DisciplineDisplayName(discipline)); err != nil {
		return err
	}
	_, err := fmt.Fprintln(t.section(), "CAT\tPOINTS\tNAME\tLAST RACE\tNOTES")
	return err
}

// UpgradeRow prints one rider due for an upgrade.
func (t *Text) UpgradeRow(e database.RosterEntry) error {
	_, err := fmt.Fprintf(t.tab, "%d\t%d\t%s\t%s\t%s\n",
		e.SumCategories.Min(), e.SumValue,
		models.TitleName(e.FirstName+" "+e.LastName),
		e.RaceDate, e.Notes)
	return err
}

// EndRoster flushes the roster table.
func (t *Text) EndRoster() error {
	if err := t.tab.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(t.out)
	return err
}

// BeginPerson prints the rider header and history column names.
func (t *Text) BeginPerson(e database.HistoryEntry) error {
	name := models.TitleName(e.FirstName + " " + e.LastName)
	if e.TeamName != "" {
		name += " - " + e.TeamName
	}
	if _, err := fmt.Fprintf(t.out, "%s\n", name); err != nil {
		return err
	}
	_, err := fmt.Fprintln(t.section(), "DATE\tPLACE\tEVENT\tPOINTS\tTOTAL\tCAT\tNOTES")
	return err
}

// PointRow prints one points row in the rider's history.
func (t *Text) PointRow(e database.HistoryEntry) error {
	event := e.EventName
	if e.RaceName != "" {
		event += ": " + e.RaceName
	}
	_, err := fmt.Fprintf(t.tab, "%s\t%s\t%s\t%d\t%d\t%v\t%s\n",
		e.RaceDate, e.Place, event, e.Value, e.SumValue, []int(e.SumCategories), e.Notes)
	return err
}

// EndPerson flushes the rider's history table.
func (t *Text) EndPerson() error {
	if err := t.tab.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(t.out)
	return err
}

// Flush is a no-op; sections flush as they close.
func (t *Text) Flush() error {
	return nil
}
