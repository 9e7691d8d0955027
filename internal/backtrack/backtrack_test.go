package backtrack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timetabling-UDP/internal/constraint"
	"timetabling-UDP/internal/domain"
	"timetabling-UDP/internal/solve"
)

func TestSolveMinimalSingleton(t *testing.T) {
	cat := domain.NewCatalog()
	cat.AddTeacher(domain.NewTeacher("T1", "Ada"))
	cat.AddRoom(&domain.Room{ID: "R1", Name: "Room 1", Type: domain.RoomTypeGeneral})
	cat.AddClass(&domain.Class{ID: "1A", Name: "1A"})
	cat.AddLesson(&domain.Lesson{
		ID: "L1", Subject: "Math", Units: 3,
		TeacherIDs: []string{"T1"}, ClassIDs: []string{"1A"},
		RoomTypeRequired: domain.RoomTypeGeneral,
	})

	timetable, stats, err := Solve(cat, Config{MaxAttempts: 10000}, nil)
	require.NoError(t, err)
	require.NotNil(t, stats)
	require.Len(t, timetable.Assignments, 3)

	seen := make(map[domain.TimeSlot]bool)
	for _, a := range timetable.Assignments {
		assert.False(t, seen[a.TimeSlot], "unit placed at a repeated timeslot")
		seen[a.TimeSlot] = true
		assert.Equal(t, "R1", a.RoomID)
		assert.Equal(t, "T1", a.TeacherID)
	}

	ok, violations := constraint.Integrated(cat, timetable)
	assert.True(t, ok, "violations: %v", violations)
}

func TestSolveMultiClassCombinedLesson(t *testing.T) {
	cat := domain.NewCatalog()
	cat.AddTeacher(domain.NewTeacher("T1", "Ada"))
	cat.AddRoom(&domain.Room{ID: "R_GYM", Name: "Gym", Type: domain.RoomTypeGym})
	cat.AddClass(&domain.Class{ID: "1A"})
	cat.AddClass(&domain.Class{ID: "1B"})
	cat.AddClass(&domain.Class{ID: "1C"})
	cat.AddLesson(&domain.Lesson{
		ID: "PE", Subject: "PE", Units: 3,
		TeacherIDs: []string{"T1"}, ClassIDs: []string{"1A", "1B", "1C"},
		RoomTypeRequired: domain.RoomTypeGym,
	})

	timetable, _, err := Solve(cat, Config{MaxAttempts: 10000}, nil)
	require.NoError(t, err)
	require.Len(t, timetable.Assignments, 3)
	for _, a := range timetable.Assignments {
		assert.Equal(t, "R_GYM", a.RoomID)
		assert.Equal(t, "T1", a.TeacherID)
	}

	ok, violations := constraint.Integrated(cat, timetable)
	assert.True(t, ok, "violations: %v", violations)
}

func TestSolveSynchronizationGroup(t *testing.T) {
	cat := domain.NewCatalog()
	cat.AddTeacher(domain.NewTeacher("T2", "Music Teacher"))
	cat.AddTeacher(domain.NewTeacher("T3", "Art Teacher"))
	cat.AddRoom(&domain.Room{ID: "MUS", Name: "Music Room", Type: domain.RoomTypeMusic})
	cat.AddRoom(&domain.Room{ID: "ART", Name: "Art Room", Type: domain.RoomTypeArt})
	cat.AddClass(&domain.Class{ID: "1A"})
	cat.AddClass(&domain.Class{ID: "1B"})
	cat.AddLesson(&domain.Lesson{
		ID: "ElecMusic", Units: 2, TeacherIDs: []string{"T2"}, ClassIDs: []string{"1A", "1B"},
		RoomTypeRequired: domain.RoomTypeMusic, SynchronizationID: "E",
	})
	cat.AddLesson(&domain.Lesson{
		ID: "ElecArt", Units: 2, TeacherIDs: []string{"T3"}, ClassIDs: []string{"1A", "1B"},
		RoomTypeRequired: domain.RoomTypeArt, SynchronizationID: "E",
	})

	timetable, _, err := Solve(cat, Config{MaxAttempts: 50000}, nil)
	require.NoError(t, err)

	musicSlots := make(map[domain.TimeSlot]bool)
	artSlots := make(map[domain.TimeSlot]bool)
	for _, a := range timetable.Assignments {
		if a.LessonID == "ElecMusic" {
			musicSlots[a.TimeSlot] = true
		}
		if a.LessonID == "ElecArt" {
			artSlots[a.TimeSlot] = true
		}
	}
	assert.Len(t, musicSlots, 2)
	assert.Equal(t, musicSlots, artSlots)

	ok, violations := constraint.Integrated(cat, timetable)
	assert.True(t, ok, "violations: %v", violations)
}

func TestSolveRespectsTeacherAvailability(t *testing.T) {
	cat := domain.NewCatalog()
	teacher := domain.NewTeacher("T7", "Music Only Teacher")
	teacher.SetAvailable(domain.TimeSlot{Weekday: domain.Wednesday, Period: 5}, false)
	teacher.SetAvailable(domain.TimeSlot{Weekday: domain.Wednesday, Period: 6}, false)
	cat.AddTeacher(teacher)
	cat.AddRoom(&domain.Room{ID: "MUS", Name: "Music Room", Type: domain.RoomTypeMusic})
	cat.AddClass(&domain.Class{ID: "1A"})
	cat.AddLesson(&domain.Lesson{
		ID: "Music", Units: 1, TeacherIDs: []string{"T7"}, ClassIDs: []string{"1A"},
		RoomTypeRequired: domain.RoomTypeMusic,
	})

	timetable, _, err := Solve(cat, Config{MaxAttempts: 10000}, nil)
	require.NoError(t, err)
	require.Len(t, timetable.Assignments, 1)
	placed := timetable.Assignments[0].TimeSlot
	assert.False(t, placed.Weekday == domain.Wednesday && (placed.Period == 5 || placed.Period == 6))
}

func TestSolveFailsOnOverCapacityInputWithoutValidation(t *testing.T) {
	// The backtracker itself doesn't validate; this documents that callers
	// must run validate.Catalog first (§4.6) — exercised here by building an
	// input that validate would reject, then confirming the solver still
	// (harmlessly) tries and fails rather than silently "succeeding" on a
	// structurally broken catalog.
	cat := domain.NewCatalog()
	cat.AddTeacher(domain.NewTeacher("T1", "Ada"))
	cat.AddRoom(&domain.Room{ID: "R1", Type: domain.RoomTypeGeneral})
	cat.AddClass(&domain.Class{ID: "1A"})
	cat.AddLesson(&domain.Lesson{
		ID: "L1", Units: 31, TeacherIDs: []string{"T1"}, ClassIDs: []string{"1A"},
		RoomTypeRequired: domain.RoomTypeGeneral,
	})

	_, _, err := Solve(cat, Config{MaxAttempts: 50000}, nil)
	require.Error(t, err)
	var failure *solve.Failure
	require.ErrorAs(t, err, &failure)
}

func TestSolveInfeasibleByConstruction(t *testing.T) {
	cat := domain.NewCatalog()
	cat.AddTeacher(domain.NewTeacher("T1", "Only Teacher"))
	cat.AddRoom(&domain.Room{ID: "R1", Type: domain.RoomTypeGeneral})
	cat.AddClass(&domain.Class{ID: "1A"})
	cat.AddClass(&domain.Class{ID: "1B"})
	cat.AddLesson(&domain.Lesson{
		ID: "L1", Units: 30, TeacherIDs: []string{"T1"}, ClassIDs: []string{"1A"},
		RoomTypeRequired: domain.RoomTypeGeneral,
	})
	cat.AddLesson(&domain.Lesson{
		ID: "L2", Units: 30, TeacherIDs: []string{"T1"}, ClassIDs: []string{"1B"},
		RoomTypeRequired: domain.RoomTypeGeneral,
	})

	_, stats, err := Solve(cat, Config{MaxAttempts: 20000}, nil)
	require.Error(t, err)
	var failure *solve.Failure
	require.ErrorAs(t, err, &failure)
	assert.Contains(t, []solve.FailureKind{solve.Infeasible, solve.BudgetExhausted}, failure.Kind)
	assert.NotNil(t, stats)
}

func TestLessonWithSixUnitsOccupiesEachPeriodOnce(t *testing.T) {
	cat := domain.NewCatalog()
	cat.AddTeacher(domain.NewTeacher("T1", "Ada"))
	cat.AddRoom(&domain.Room{ID: "R1", Type: domain.RoomTypeGeneral})
	cat.AddClass(&domain.Class{ID: "1A"})
	cat.AddLesson(&domain.Lesson{
		ID: "L1", Units: 6, TeacherIDs: []string{"T1"}, ClassIDs: []string{"1A"},
		RoomTypeRequired: domain.RoomTypeGeneral,
	})

	timetable, _, err := Solve(cat, Config{MaxAttempts: 50000}, nil)
	require.NoError(t, err)
	require.Len(t, timetable.Assignments, 6)

	// Timeslots are tried in (weekday, period) order, so the six units fill
	// Monday periods 1..6.
	byPeriod := make(map[int]int)
	for _, a := range timetable.Assignments {
		byPeriod[a.TimeSlot.Period]++
	}
	for p := 1; p <= domain.PeriodsPerDay; p++ {
		assert.Equal(t, 1, byPeriod[p], "period %d should have exactly one unit", p)
	}
}

func TestSyncGroupWithTwoUnitsSharesExactlyTwoTimeslots(t *testing.T) {
	cat := domain.NewCatalog()
	cat.AddTeacher(domain.NewTeacher("T2", "Music Teacher"))
	cat.AddTeacher(domain.NewTeacher("T3", "Art Teacher"))
	cat.AddRoom(&domain.Room{ID: "MUS", Type: domain.RoomTypeMusic})
	cat.AddRoom(&domain.Room{ID: "ART", Type: domain.RoomTypeArt})
	cat.AddClass(&domain.Class{ID: "1A"})
	cat.AddLesson(&domain.Lesson{
		ID: "M", Units: 2, TeacherIDs: []string{"T2"}, ClassIDs: []string{"1A"},
		RoomTypeRequired: domain.RoomTypeMusic, SynchronizationID: "G",
	})
	cat.AddLesson(&domain.Lesson{
		ID: "A", Units: 2, TeacherIDs: []string{"T3"}, ClassIDs: []string{"1A"},
		RoomTypeRequired: domain.RoomTypeArt, SynchronizationID: "G",
	})

	timetable, _, err := Solve(cat, Config{MaxAttempts: 50000}, nil)
	require.NoError(t, err)

	mSlots := make(map[domain.TimeSlot]bool)
	aSlots := make(map[domain.TimeSlot]bool)
	for _, a := range timetable.Assignments {
		if a.LessonID == "M" {
			mSlots[a.TimeSlot] = true
		} else {
			aSlots[a.TimeSlot] = true
		}
	}
	assert.Len(t, mSlots, 2)
	assert.Equal(t, mSlots, aSlots)
}

func TestSolveWithInsertionSeedOrderStillProducesAFeasibleTimetable(t *testing.T) {
	cat := domain.NewCatalog()
	cat.AddTeacher(domain.NewTeacher("T1", "Ada"))
	cat.AddTeacher(domain.NewTeacher("T2", "Grace"))
	cat.AddRoom(&domain.Room{ID: "R1", Type: domain.RoomTypeGeneral})
	cat.AddRoom(&domain.Room{ID: "R2", Type: domain.RoomTypeGym})
	cat.AddClass(&domain.Class{ID: "1A"})
	cat.AddLesson(&domain.Lesson{
		ID: "L1", Units: 4, TeacherIDs: []string{"T1"}, ClassIDs: []string{"1A"},
		RoomTypeRequired: domain.RoomTypeGeneral,
	})
	cat.AddLesson(&domain.Lesson{
		ID: "L2", Units: 2, TeacherIDs: []string{"T2"}, ClassIDs: []string{"1A"},
		RoomTypeRequired: domain.RoomTypeGym,
	})

	timetable, _, err := Solve(cat, Config{MaxAttempts: 10000, SeedOrder: "insertion"}, nil)
	require.NoError(t, err)
	ok, violations := constraint.Integrated(cat, timetable)
	assert.True(t, ok, "violations: %v", violations)
}

func TestRerunningProducesAgainValidTimetable(t *testing.T) {
	cat := domain.NewCatalog()
	cat.AddTeacher(domain.NewTeacher("T1", "Ada"))
	cat.AddRoom(&domain.Room{ID: "R1", Type: domain.RoomTypeGeneral})
	cat.AddClass(&domain.Class{ID: "1A"})
	cat.AddLesson(&domain.Lesson{
		ID: "L1", Units: 4, TeacherIDs: []string{"T1"}, ClassIDs: []string{"1A"},
		RoomTypeRequired: domain.RoomTypeGeneral,
	})

	first, _, err := Solve(cat, Config{MaxAttempts: 10000}, nil)
	require.NoError(t, err)
	second, _, err := Solve(cat, Config{MaxAttempts: 10000}, nil)
	require.NoError(t, err)

	ok1, v1 := constraint.Integrated(cat, first)
	ok2, v2 := constraint.Integrated(cat, second)
	assert.True(t, ok1, "violations: %v", v1)
	assert.True(t, ok2, "violations: %v", v2)
	assert.Equal(t, first.Assignments, second.Assignments, "deterministic search should repeat identically given identical input ordering")
}
