// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package scraper

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/tomtom215/velorank/internal/models"
)

// numberRE extracts the first run of digits from a label or cell.
var numberRE = regexp.MustCompile(`[0-9]+`)

// profile holds the fields parsed from a member page. Pointer fields are
// nil when the page does not carry them, so snapshot defaults survive.
type profile struct {
	License *int64
	MTB     *int
	DH      *int
	CCX     *int
	Road    *int
	Track   *int
}

// parseProfile reads a member profile page. The page renders the license
// number under an element with class "license" and the per-discipline
// categories as rows of a "categories" table, discipline name in the
// header cell and category number in the data cell:
//
//	<p class="license">License: 1234</p>
//	<table class="categories">
//	  <tr><th>Road</th><td>4</td></tr>
//	  <tr><th>Cyclocross</th><td>3</td></tr>
//	</table>
//
// Unrecognized rows and rows without a number are skipped; a page without
// a license is a lapsed membership and still parses.
func parseProfile(r io.Reader) (*profile, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse profile page: %w", err)
	}

	p := &profile{}
	if text := doc.Find(".license").First().Text(); text != "" {
		if n, ok := firstNumber(text); ok {
			p.License = &n
		}
	}

	doc.Find("table.categories tr").Each(func(_ int, row *goquery.Selection) {
		label := normalizeLabel(row.Find("th").First().Text())
		raw, ok := firstNumber(row.Find("td").First().Text())
		if !ok {
			return
		}
		category := int(raw)
		switch label {
		case "road":
			p.Road = &category
		case "track":
			p.Track = &category
		case "cyclocross", "ccx", "cx":
			p.CCX = &category
		case "mountain bike", "mtb", "cross country":
			p.MTB = &category
		case "downhill", "dh":
			p.DH = &category
		}
	})

	return p, nil
}

// apply copies parsed fields onto a snapshot, leaving defaults where the
// page had nothing.
func (p *profile) apply(s *models.MemberSnapshot) {
	if p.License != nil {
		s.License = p.License
	}
	if p.MTB != nil {
		s.MTB = *p.MTB
	}
	if p.DH != nil {
		s.DH = *p.DH
	}
	if p.CCX != nil {
		s.CCX = *p.CCX
	}
	if p.Road != nil {
		s.Road = *p.Road
	}
	if p.Track != nil {
		s.Track = *p.Track
	}
}

func firstNumber(s string) (int64, bool) {
	m := numberRE.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(m, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func normalizeLabel(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
