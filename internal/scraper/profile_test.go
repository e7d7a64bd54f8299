// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package scraper

import (
	"strings"
	"testing"

	"github.com/tomtom215/velorank/internal/models"
)

const fullProfilePage = `<html><body>
<h1>Anna Watts</h1>
<p class="license">License: 1234</p>
<table class="categories">
  <tr><th>Road</th><td>Category 3</td></tr>
  <tr><th>Track</th><td>4</td></tr>
  <tr><th>Cyclocross</th><td>2</td></tr>
  <tr><th>Mountain Bike</th><td>1</td></tr>
  <tr><th>Downhill</th><td>2</td></tr>
</table>
</body></html>`

func TestParseProfile(t *testing.T) {
	tests := []struct {
		name string
		page string
		want func(t *testing.T, p *profile)
	}{
		{
			name: "full page",
			page: fullProfilePage,
			want: func(t *testing.T, p *profile) {
				if p.License == nil || *p.License != 1234 {
					t.Errorf("License = %v, want 1234", p.License)
				}
				if p.Road == nil || *p.Road != 3 {
					t.Errorf("Road = %v, want 3", p.Road)
				}
				if p.Track == nil || *p.Track != 4 {
					t.Errorf("Track = %v, want 4", p.Track)
				}
				if p.CCX == nil || *p.CCX != 2 {
					t.Errorf("CCX = %v, want 2", p.CCX)
				}
				if p.MTB == nil || *p.MTB != 1 {
					t.Errorf("MTB = %v, want 1", p.MTB)
				}
				if p.DH == nil || *p.DH != 2 {
					t.Errorf("DH = %v, want 2", p.DH)
				}
			},
		},
		{
			name: "lapsed membership has no license",
			page: `<html><body><table class="categories"><tr><th>Road</th><td>4</td></tr></table></body></html>`,
			want: func(t *testing.T, p *profile) {
				if p.License != nil {
					t.Errorf("License = %v, want nil", p.License)
				}
				if p.Road == nil || *p.Road != 4 {
					t.Errorf("Road = %v, want 4", p.Road)
				}
			},
		},
		{
			name: "license without digits is ignored",
			page: `<html><body><p class="license">License: pending</p></body></html>`,
			want: func(t *testing.T, p *profile) {
				if p.License != nil {
					t.Errorf("License = %v, want nil", p.License)
				}
			},
		},
		{
			name: "unknown and empty rows are skipped",
			page: `<html><body><p class="license">77</p>
<table class="categories">
  <tr><th>BMX</th><td>1</td></tr>
  <tr><th>Road</th><td>none</td></tr>
  <tr><th>Track</th><td>2</td></tr>
</table></body></html>`,
			want: func(t *testing.T, p *profile) {
				if p.Road != nil {
					t.Errorf("Road = %v, want nil", p.Road)
				}
				if p.Track == nil || *p.Track != 2 {
					t.Errorf("Track = %v, want 2", p.Track)
				}
			},
		},
		{
			name: "label casing and whitespace are normalized",
			page: `<html><body><table class="categories">
  <tr><th>  MOUNTAIN
  BIKE </th><td>2</td></tr>
</table></body></html>`,
			want: func(t *testing.T, p *profile) {
				if p.MTB == nil || *p.MTB != 2 {
					t.Errorf("MTB = %v, want 2", p.MTB)
				}
			},
		},
		{
			name: "empty page parses",
			page: "",
			want: func(t *testing.T, p *profile) {
				if p.License != nil || p.Road != nil || p.CCX != nil {
					t.Errorf("parsed fields from empty page: %+v", p)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := parseProfile(strings.NewReader(tt.page))
			if err != nil {
				t.Fatalf("parseProfile() error = %v", err)
			}
			tt.want(t, p)
		})
	}
}

func TestProfileApplyKeepsDefaults(t *testing.T) {
	road := 2
	license := int64(99)
	p := &profile{License: &license, Road: &road}

	snap := models.NewMemberSnapshot(7, models.NewDate(2026, 3, 1))
	p.apply(snap)

	if snap.License == nil || *snap.License != 99 {
		t.Errorf("License = %v, want 99", snap.License)
	}
	if snap.Road != 2 {
		t.Errorf("Road = %d, want 2", snap.Road)
	}
	if snap.MTB != models.DefaultMTBCategory || snap.DH != models.DefaultDHCategory {
		t.Errorf("MTB/DH = %d/%d, want defaults", snap.MTB, snap.DH)
	}
	if snap.CCX != models.DefaultCCXCategory || snap.Track != models.DefaultTrackCategory {
		t.Errorf("CCX/Track = %d/%d, want defaults", snap.CCX, snap.Track)
	}
}

func TestCategoryForAfterApply(t *testing.T) {
	license := int64(55)
	ccx := 3
	p := &profile{License: &license, CCX: &ccx}

	snap := models.NewMemberSnapshot(7, models.NewDate(2026, 3, 1))
	p.apply(snap)

	if cat, ok := snap.CategoryFor("cyclocross"); !ok || cat != 3 {
		t.Errorf("CategoryFor(cyclocross) = %d, %v; want 3, true", cat, ok)
	}

	// Without a license no category applies, whatever the columns say.
	snap.License = nil
	if _, ok := snap.CategoryFor("cyclocross"); ok {
		t.Error("CategoryFor() = ok without a license")
	}
}
