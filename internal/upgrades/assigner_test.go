// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package upgrades

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/velorank/internal/models"
)

func TestAssignPointsAwardsScheduleVector(t *testing.T) {
	db := setupStore(t)
	ctx := context.Background()

	seedEvent(t, db, 1, "Cross Crusade #1", "cyclocross", 2025)
	// 80 starters: 2019 open bracket awards [10 8 7 5 4 3 2 1].
	seedRace(t, db, raceAt(10, 1, "Mens 4", models.NewDate(2025, time.October, 5), models.IntList{4}, 80))
	for i := int64(1); i <= 3; i++ {
		seedPerson(t, db, i, "Rider", "Smith")
	}
	seedResult(t, db, 100, 10, 1, "1")
	seedResult(t, db, 101, 10, 2, "2")
	seedResult(t, db, 102, 10, 3, "9") // beyond the vector

	calc := NewCalculator(db, nil, nil, 0)
	created, err := calc.AssignPoints(ctx, db.Conn(), "cyclocross", false)
	if err != nil {
		t.Fatalf("AssignPoints() error = %v", err)
	}
	if created != 2 {
		t.Errorf("AssignPoints() created = %d, want 2", created)
	}

	for _, tt := range []struct {
		resultID int64
		value    int
	}{
		{100, 10},
		{101, 8},
	} {
		p := getPoints(t, db, tt.resultID)
		if p == nil {
			t.Fatalf("GetPoints(%d) = nil, want a row", tt.resultID)
		}
		if p.Value != tt.value {
			t.Errorf("result %d: Value = %d, want %d", tt.resultID, p.Value, tt.value)
		}
	}
	if p := getPoints(t, db, 102); p != nil {
		t.Errorf("result 102 (9th place) got %d points, want none", p.Value)
	}
}

func TestAssignPointsSkipsPlaceholderNames(t *testing.T) {
	db := setupStore(t)
	ctx := context.Background()

	seedEvent(t, db, 1, "Cross Crusade #1", "cyclocross", 2025)
	seedRace(t, db, raceAt(10, 1, "Mens 4", models.NewDate(2025, time.October, 5), models.IntList{4}, 80))
	seedPerson(t, db, 1, "Alice", "Smith")
	seedPerson(t, db, 2, "?", "?") // smashed results column
	seedResult(t, db, 100, 10, 1, "1")
	seedResult(t, db, 101, 10, 2, "2")

	calc := NewCalculator(db, nil, nil, 0)
	created, err := calc.AssignPoints(ctx, db.Conn(), "cyclocross", false)
	if err != nil {
		t.Fatalf("AssignPoints() error = %v", err)
	}
	if created != 1 {
		t.Errorf("AssignPoints() created = %d, want 1", created)
	}
	if p := getPoints(t, db, 101); p != nil {
		t.Errorf("placeholder rider got a points row with value %d, want none", p.Value)
	}
}

func TestAssignPointsSkipsUnscheduledDisciplines(t *testing.T) {
	db := setupStore(t)
	ctx := context.Background()

	// Mountain bike has no published schedule; the race awards nothing.
	seedEvent(t, db, 1, "Sisters Stampede", "mountain_bike", 2025)
	seedRace(t, db, raceAt(10, 1, "Cat 2 Men", models.NewDate(2025, time.May, 25), models.IntList{2}, 60))
	seedPerson(t, db, 1, "Alice", "Smith")
	seedResult(t, db, 100, 10, 1, "1")

	calc := NewCalculator(db, nil, nil, 0)
	created, err := calc.AssignPoints(ctx, db.Conn(), "mountain_bike", false)
	if err != nil {
		t.Fatalf("AssignPoints() error = %v", err)
	}
	if created != 0 {
		t.Errorf("AssignPoints() created = %d, want 0", created)
	}
}

func TestAssignPointsIncrementalLeavesAwardedRaces(t *testing.T) {
	db := setupStore(t)
	ctx := context.Background()

	seedEvent(t, db, 1, "Cross Crusade #1", "cyclocross", 2025)
	seedRace(t, db, raceAt(10, 1, "Mens 4", models.NewDate(2025, time.October, 5), models.IntList{4}, 80))
	seedRace(t, db, raceAt(11, 1, "Mens 3", models.NewDate(2025, time.October, 12), models.IntList{3}, 80))
	seedPerson(t, db, 1, "Alice", "Smith")
	seedResult(t, db, 100, 10, 1, "1")
	seedResult(t, db, 101, 11, 1, "3")

	calc := NewCalculator(db, nil, nil, 0)
	if _, err := calc.AssignPoints(ctx, db.Conn(), "cyclocross", false); err != nil {
		t.Fatalf("full AssignPoints() error = %v", err)
	}
	// Hand-adjust one award; an incremental pass must not touch it.
	if err := db.SavePoints(ctx, db.Conn(), &models.Points{ResultID: 100, Value: 3}); err != nil {
		t.Fatalf("SavePoints() error = %v", err)
	}

	created, err := calc.AssignPoints(ctx, db.Conn(), "cyclocross", true)
	if err != nil {
		t.Fatalf("incremental AssignPoints() error = %v", err)
	}
	if created != 0 {
		t.Errorf("incremental AssignPoints() created = %d, want 0", created)
	}
	if p := getPoints(t, db, 100); p == nil || p.Value != 3 {
		t.Errorf("incremental pass rewrote the award: got %+v, want Value 3", p)
	}

	// A full pass rebuilds from the schedule.
	if _, err := calc.AssignPoints(ctx, db.Conn(), "cyclocross", false); err != nil {
		t.Fatalf("second full AssignPoints() error = %v", err)
	}
	if p := getPoints(t, db, 100); p == nil || p.Value != 10 {
		t.Errorf("full pass award = %+v, want Value 10", p)
	}
}

func TestAssignPointsUnknownDiscipline(t *testing.T) {
	db := setupStore(t)
	if _, err := NewCalculator(db, nil, nil, 0).AssignPoints(context.Background(), db.Conn(), "bmx", false); err == nil {
		t.Error("AssignPoints(bmx) error = nil, want unknown-discipline error")
	}
}
