// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package upgrades

import (
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/velorank/internal/models"
)

func scheduleRace(name string, date models.Date, starters int) *models.Race {
	return &models.Race{Name: name, Date: date, Starters: starters}
}

func TestPointsSchedule(t *testing.T) {
	before := models.NewDate(2019, time.August, 30)
	after := models.NewDate(2019, time.August, 31)
	recent := models.NewDate(2025, time.October, 5)

	tests := []struct {
		name       string
		discipline string
		race       *models.Race
		want       []int
	}{
		{
			name:       "cyclocross open small field old edition",
			discipline: "cyclocross",
			race:       scheduleRace("Mens 4", before, 15),
			want:       []int{3, 2, 1},
		},
		{
			name:       "cyclocross open 16 starters old edition",
			discipline: "cyclocross",
			race:       scheduleRace("Mens 4", before, 16),
			want:       []int{5, 4, 3, 2, 1},
		},
		{
			name:       "cyclocross open 25 starters moves brackets on cutover day",
			discipline: "cyclocross",
			race:       scheduleRace("Mens 4", after, 25),
			want:       []int{3, 2, 1},
		},
		{
			name:       "cyclocross open 25 starters day before cutover",
			discipline: "cyclocross",
			race:       scheduleRace("Mens 4", before, 25),
			want:       []int{5, 4, 3, 2, 1},
		},
		{
			name:       "cyclocross open large field",
			discipline: "cyclocross",
			race:       scheduleRace("Mens 4/5", recent, 80),
			want:       []int{10, 8, 7, 5, 4, 3, 2, 1},
		},
		{
			name:       "cyclocross women small field",
			discipline: "cyclocross",
			race:       scheduleRace("Women 4", recent, 15),
			want:       []int{3, 2, 1},
		},
		{
			name:       "cyclocross women small field old edition",
			discipline: "cyclocross",
			race:       scheduleRace("Women 4", before, 15),
			want:       []int{5, 4, 3, 2, 1},
		},
		{
			name:       "junior race scores on women's brackets",
			discipline: "cyclocross",
			race:       scheduleRace("Junior Men 3/4/5", recent, 6),
			want:       []int{3, 2, 1},
		},
		{
			name:       "women match is case-insensitive",
			discipline: "cyclocross",
			race:       scheduleRace("WOMEN 3", recent, 20),
			want:       []int{5, 4, 3, 2, 1},
		},
		{
			name:       "circuit women fall back to open brackets",
			discipline: "circuit",
			race:       scheduleRace("Women 1/2", recent, 25),
			want:       []int{5, 4, 3, 2, 1},
		},
		{
			name:       "criterium scores like circuit",
			discipline: "criterium",
			race:       scheduleRace("Mens 3", recent, 50),
			want:       []int{7, 5, 4, 3, 2, 1},
		},
		{
			name:       "road mid field",
			discipline: "road",
			race:       scheduleRace("Senior Men 4", recent, 30),
			want:       []int{8, 6, 5, 4, 3, 2, 1},
		},
		{
			name:       "road field below minimum",
			discipline: "road",
			race:       scheduleRace("Senior Men 4", recent, 4),
			want:       nil,
		},
		{
			name:       "road big field",
			discipline: "road",
			race:       scheduleRace("Senior Men 3", recent, 50),
			want:       []int{10, 8, 7, 6, 5, 4, 3, 2, 1},
		},
		{
			name:       "stage race deep field",
			discipline: "tour",
			race:       scheduleRace("Elkhorn Classic", recent, 50),
			want:       []int{20, 18, 16, 14, 12, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1},
		},
		{
			name:       "stage race below minimum",
			discipline: "tour",
			race:       scheduleRace("Elkhorn Classic", recent, 9),
			want:       nil,
		},
		{
			name:       "unknown discipline",
			discipline: "gravel",
			race:       scheduleRace("Gorge Gravel", recent, 100),
			want:       nil,
		},
		{
			name:       "zero starters",
			discipline: "cyclocross",
			race:       scheduleRace("Mens 4", recent, 0),
			want:       nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PointsSchedule(tt.discipline, tt.race)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PointsSchedule(%s, %q, %d starters) = %v, want %v",
					tt.discipline, tt.race.Name, tt.race.Starters, got, tt.want)
			}
		})
	}
}
