// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package models

import "strings"

// Upgrade-discipline tags. Points accumulate per upgrade-discipline,
// which groups the finer-grained upstream event disciplines.
const (
	DisciplineCyclocross   = "cyclocross"
	DisciplineRoad         = "road"
	DisciplineMountainBike = "mountain_bike"
	DisciplineTrack        = "track"
)

// UpgradeDisciplines lists the upgrade-discipline tags in canonical
// order. The UI and the pipeline iterate in this order.
var UpgradeDisciplines = []string{
	DisciplineCyclocross,
	DisciplineRoad,
	DisciplineMountainBike,
	DisciplineTrack,
}

// DisciplineMap groups upstream event disciplines under each
// upgrade-discipline.
var DisciplineMap = map[string][]string{
	DisciplineCyclocross:   {"cyclocross"},
	DisciplineRoad:         {"road", "circuit", "criterium", "gran_fondo", "gravel", "time_trial", "tour"},
	DisciplineMountainBike: {"mountain_bike", "downhill", "super_d", "short_track"},
	DisciplineTrack:        {"track"},
}

// EventDisciplines returns the upstream event disciplines grouped under
// the given upgrade-discipline, or nil for an unknown tag.
func EventDisciplines(upgradeDiscipline string) []string {
	return DisciplineMap[upgradeDiscipline]
}

// IsUpgradeDiscipline reports whether tag is a known upgrade-discipline.
func IsUpgradeDiscipline(tag string) bool {
	_, ok := DisciplineMap[tag]
	return ok
}

// UpgradeDisciplineFor returns the upgrade-discipline that groups the
// given event discipline, or "" if none does.
func UpgradeDisciplineFor(eventDiscipline string) string {
	for _, ud := range UpgradeDisciplines {
		for _, ed := range DisciplineMap[ud] {
			if ed == eventDiscipline {
				return ud
			}
		}
	}
	return ""
}

// DisciplineDisplayName converts a discipline tag to its display form:
// the portion before the first underscore, title-cased ("mountain_bike"
// becomes "Mountain").
func DisciplineDisplayName(tag string) string {
	name, _, _ := strings.Cut(tag, "_")
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
