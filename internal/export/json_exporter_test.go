package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timetabling-UDP/internal/domain"
)

func sampleCatalogAndTimetable() (*domain.Catalog, *domain.Timetable) {
	cat := domain.NewCatalog()
	cat.AddTeacher(domain.NewTeacher("T1", "Ada"))
	cat.AddRoom(&domain.Room{ID: "R1", Name: "Room 1", Type: domain.RoomTypeGeneral})
	cat.AddClass(&domain.Class{ID: "1A"})
	cat.AddLesson(&domain.Lesson{ID: "L1", Subject: "Math", Units: 2, TeacherIDs: []string{"T1"}, ClassIDs: []string{"1A"}})

	t := &domain.Timetable{}
	t.Push(domain.Assignment{
		LessonID: "L1", TimeSlot: domain.TimeSlot{Weekday: domain.Tuesday, Period: 3},
		RoomID: "R1", TeacherID: "T1",
	})
	t.Push(domain.Assignment{
		LessonID: "L1", TimeSlot: domain.TimeSlot{Weekday: domain.Monday, Period: 1},
		RoomID: "R1", TeacherID: "T1",
	})
	return cat, t
}

func TestJSONWritesSummaryAndAssignments(t *testing.T) {
	cat, tt := sampleCatalogAndTimetable()
	path := filepath.Join(t.TempDir(), "out.json")

	require.NoError(t, JSON(cat, tt, path))

	loaded, err := LoadJSON(path)
	require.NoError(t, err)
	require.Len(t, loaded.Assignments, 2)
}

func TestBuildSortsAssignmentsByLessonThenWeekdayThenPeriod(t *testing.T) {
	cat, tt := sampleCatalogAndTimetable()
	export := build(cat, tt)

	require.Len(t, export.Assignments, 2)
	assert.Equal(t, "MON", export.Assignments[0].Weekday)
	assert.Equal(t, 1, export.Assignments[0].Period)
	assert.Equal(t, "TUE", export.Assignments[1].Weekday)
	assert.Equal(t, 3, export.Assignments[1].Period)

	assert.Equal(t, 2, export.Summary.TotalAssignments)
	assert.Equal(t, 1, export.Summary.TotalLessons)
	assert.Equal(t, 1, export.Summary.TotalRooms)
	assert.Equal(t, 1, export.Summary.TotalTeachers)
	assert.Equal(t, "Math", export.Assignments[0].Subject)
}

func TestLoadJSONRoundTripsAssignments(t *testing.T) {
	cat, tt := sampleCatalogAndTimetable()
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, JSON(cat, tt, path))

	loaded, err := LoadJSON(path)
	require.NoError(t, err)

	byWeekdayPeriod := make(map[domain.TimeSlot]domain.Assignment)
	for _, a := range loaded.Assignments {
		byWeekdayPeriod[a.TimeSlot] = a
	}
	mon1, ok := byWeekdayPeriod[domain.TimeSlot{Weekday: domain.Monday, Period: 1}]
	require.True(t, ok)
	assert.Equal(t, "L1", mon1.LessonID)
	assert.Equal(t, "R1", mon1.RoomID)
	assert.Equal(t, "T1", mon1.TeacherID)
}

func TestLoadJSONRejectsUnknownWeekdayToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	content := `{"summary":{},"assignments":[{"lesson_id":"L1","weekday":"XXX","period":1,"room_id":"R1","teacher_id":"T1"}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadJSON(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown weekday "XXX"`)
}

func TestLoadJSONPropagatesMissingFileError(t *testing.T) {
	_, err := LoadJSON(filepath.Join(t.TempDir(), "does-not-exist.json"))
	require.Error(t, err)
}

