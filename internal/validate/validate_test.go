package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timetabling-UDP/internal/domain"
)

func minimalValidCatalog() *domain.Catalog {
	cat := domain.NewCatalog()
	cat.AddTeacher(domain.NewTeacher("T1", "Ada"))
	cat.AddRoom(&domain.Room{ID: "R1", Name: "Room 1", Type: domain.RoomTypeGeneral, Capacity: 30})
	cat.AddClass(&domain.Class{ID: "1A", Name: "1A", Size: 20})
	cat.AddLesson(&domain.Lesson{
		ID: "L1", Subject: "Math", Units: 3,
		TeacherIDs: []string{"T1"}, ClassIDs: []string{"1A"},
		RoomTypeRequired: domain.RoomTypeGeneral,
	})
	return cat
}

func TestCatalogAcceptsAValidInput(t *testing.T) {
	assert.NoError(t, Catalog(minimalValidCatalog()))
}

func TestCatalogReportsDuplicateIDs(t *testing.T) {
	cat := minimalValidCatalog()
	cat.AddTeacher(domain.NewTeacher("T1", "Duplicate"))

	err := Catalog(cat)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate teacher id "T1"`)
}

func TestCatalogReportsDanglingTeacherReference(t *testing.T) {
	cat := minimalValidCatalog()
	cat.AddLesson(&domain.Lesson{
		ID: "L2", Units: 1, TeacherIDs: []string{"GHOST"}, ClassIDs: []string{"1A"},
		RoomTypeRequired: domain.RoomTypeGeneral,
	})

	err := Catalog(cat)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `lesson "L2" references unknown teacher "GHOST"`)
}

func TestCatalogReportsDanglingClassReference(t *testing.T) {
	cat := minimalValidCatalog()
	cat.AddLesson(&domain.Lesson{
		ID: "L2", Units: 1, TeacherIDs: []string{"T1"}, ClassIDs: []string{"GHOST"},
		RoomTypeRequired: domain.RoomTypeGeneral,
	})

	err := Catalog(cat)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `lesson "L2" references unknown class "GHOST"`)
}

func TestCatalogRejectsOverCapacityClass(t *testing.T) {
	cat := domain.NewCatalog()
	cat.AddTeacher(domain.NewTeacher("T1", "Ada"))
	cat.AddClass(&domain.Class{ID: "1A", Name: "1A", Size: 20})
	cat.AddLesson(&domain.Lesson{
		ID: "L1", Units: 31, TeacherIDs: []string{"T1"}, ClassIDs: []string{"1A"},
		RoomTypeRequired: domain.RoomTypeGeneral,
	})

	err := Catalog(cat)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `class "1A" requires 31 units per week, exceeding the 30-slot cap`)
}

func TestCatalogAllowsExactlyThirtyUnits(t *testing.T) {
	cat := domain.NewCatalog()
	cat.AddTeacher(domain.NewTeacher("T1", "Ada"))
	cat.AddClass(&domain.Class{ID: "1A", Name: "1A", Size: 20})
	cat.AddLesson(&domain.Lesson{
		ID: "L1", Units: MaxUnitsPerClass, TeacherIDs: []string{"T1"}, ClassIDs: []string{"1A"},
		RoomTypeRequired: domain.RoomTypeGeneral,
	})
	assert.NoError(t, Catalog(cat))
}

func TestCatalogRejectsMismatchedSyncGroupUnits(t *testing.T) {
	cat := minimalValidCatalog()
	cat.AddLesson(&domain.Lesson{
		ID: "L2", Units: 2, TeacherIDs: []string{"T1"}, ClassIDs: []string{"1A"},
		RoomTypeRequired: domain.RoomTypeGeneral, SynchronizationID: "G1",
	})
	cat.AddLesson(&domain.Lesson{
		ID: "L3", Units: 3, TeacherIDs: []string{"T1"}, ClassIDs: []string{"1A"},
		RoomTypeRequired: domain.RoomTypeGeneral, SynchronizationID: "G1",
	})

	err := Catalog(cat)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `synchronization group "G1" has mismatched units`)
}

func TestCatalogAcceptsMatchedSyncGroupUnits(t *testing.T) {
	cat := domain.NewCatalog()
	cat.AddTeacher(domain.NewTeacher("T2", "Music Teacher"))
	cat.AddTeacher(domain.NewTeacher("T3", "Art Teacher"))
	cat.AddClass(&domain.Class{ID: "1A", Name: "1A"})
	cat.AddClass(&domain.Class{ID: "1B", Name: "1B"})
	cat.AddLesson(&domain.Lesson{
		ID: "ElecMusic", Units: 2, TeacherIDs: []string{"T2"}, ClassIDs: []string{"1A", "1B"},
		RoomTypeRequired: domain.RoomTypeMusic, SynchronizationID: "E",
	})
	cat.AddLesson(&domain.Lesson{
		ID: "ElecArt", Units: 2, TeacherIDs: []string{"T3"}, ClassIDs: []string{"1A", "1B"},
		RoomTypeRequired: domain.RoomTypeArt, SynchronizationID: "E",
	})
	assert.NoError(t, Catalog(cat))
}
