// Package validate checks the structural integrity of a loaded Catalog
// before any solver is allowed to run against it.
package validate

import (
	"errors"
	"fmt"
	"sort"

	"timetabling-UDP/internal/domain"
)

// Kind enumerates the abstract error categories a validation failure can
// fall into, mirroring InputReferenceError/InputCapacityError. Input shape
// problems are reported by the ingest package, not here.
type Kind int

const (
	KindReference Kind = iota
	KindCapacity
)

func (k Kind) String() string {
	switch k {
	case KindReference:
		return "reference"
	case KindCapacity:
		return "capacity"
	default:
		return "unknown"
	}
}

// Error is one reported validation problem. It implements the error
// interface so a slice of *Error can be aggregated with errors.Join.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// MaxUnitsPerClass is the weekly slot count: the per-class cap on summed
// Lesson units (§3, §4.1).
const MaxUnitsPerClass = domain.DaysPerWeek * domain.PeriodsPerDay

// Catalog reports every structural problem it finds in one pass, joined
// into a single error via errors.Join, or nil if the catalog is clean.
// Callers must not run a solver unless this returns nil; the solvers do not
// call it themselves.
func Catalog(c *domain.Catalog) error {
	var errs []error

	errs = append(errs, duplicateIDErrors(c)...)
	errs = append(errs, danglingReferenceErrors(c)...)
	errs = append(errs, capacityErrors(c)...)
	errs = append(errs, syncGroupUnitsErrors(c)...)

	return errors.Join(errs...)
}

func duplicateIDErrors(c *domain.Catalog) []error {
	var errs []error
	for _, collection := range []string{"teacher", "room", "class", "lesson"} {
		for _, id := range c.DuplicateIDs(collection) {
			errs = append(errs, &Error{
				Kind:    KindReference,
				Message: fmt.Sprintf("duplicate %s id %q", collection, id),
			})
		}
	}
	return errs
}

func danglingReferenceErrors(c *domain.Catalog) []error {
	var errs []error
	for _, lessonID := range c.LessonOrder() {
		l := c.Lessons[lessonID]
		for _, teacherID := range l.TeacherIDs {
			if _, ok := c.Teachers[teacherID]; !ok {
				errs = append(errs, &Error{
					Kind:    KindReference,
					Message: fmt.Sprintf("lesson %q references unknown teacher %q", l.ID, teacherID),
				})
			}
		}
		for _, classID := range l.ClassIDs {
			if _, ok := c.Classes[classID]; !ok {
				errs = append(errs, &Error{
					Kind:    KindReference,
					Message: fmt.Sprintf("lesson %q references unknown class %q", l.ID, classID),
				})
			}
		}
	}
	return errs
}

func capacityErrors(c *domain.Catalog) []error {
	unitsByClass := make(map[string]int)
	for _, lessonID := range c.LessonOrder() {
		l := c.Lessons[lessonID]
		for _, classID := range l.ClassIDs {
			unitsByClass[classID] += l.Units
		}
	}
	classIDs := make([]string, 0, len(unitsByClass))
	for classID := range unitsByClass {
		classIDs = append(classIDs, classID)
	}
	sort.Strings(classIDs)

	var errs []error
	for _, classID := range classIDs {
		units := unitsByClass[classID]
		if units > MaxUnitsPerClass {
			errs = append(errs, &Error{
				Kind: KindCapacity,
				Message: fmt.Sprintf(
					"class %q requires %d units per week, exceeding the %d-slot cap",
					classID, units, MaxUnitsPerClass,
				),
			})
		}
	}
	return errs
}

// syncGroupUnitsErrors implements the Open Question resolution: groups
// whose members disagree on Units are rejected rather than silently
// coupled up to the minimum.
func syncGroupUnitsErrors(c *domain.Catalog) []error {
	groupIDs := append([]string(nil), c.SyncGroupIDs()...)
	sort.Strings(groupIDs)

	var errs []error
	for _, groupID := range groupIDs {
		members, _ := c.SyncGroup(memberOf(c, groupID))
		if len(members) < 2 {
			continue
		}
		want := c.Lessons[members[0]].Units
		for _, id := range members[1:] {
			if c.Lessons[id].Units != want {
				errs = append(errs, &Error{
					Kind: KindReference,
					Message: fmt.Sprintf(
						"synchronization group %q has mismatched units: lesson %q has %d, lesson %q has %d",
						groupID, members[0], want, id, c.Lessons[id].Units,
					),
				})
			}
		}
	}
	return errs
}

// memberOf finds any lesson ID currently assigned to groupID, so
// SyncGroupIDs (which returns group IDs) can recover the member roster from
// Catalog.SyncGroup (which is keyed by lesson ID).
func memberOf(c *domain.Catalog, groupID string) string {
	for _, lessonID := range c.LessonOrder() {
		l := c.Lessons[lessonID]
		if l.SynchronizationID == groupID {
			return lessonID
		}
	}
	return ""
}
