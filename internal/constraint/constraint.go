// Package constraint holds the seven hard-constraint predicates every
// output Timetable must satisfy, plus an integrated check that runs all of
// them. Each predicate is independent and reusable from both solvers.
package constraint

import (
	"fmt"

	"timetabling-UDP/internal/domain"
)

// Violation is one human-readable constraint breach, naming the offending
// entities and timeslot.
type Violation struct {
	Constraint string
	Message    string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Constraint, v.Message)
}

// Check is the common shape every constraint predicate and the integrated
// check share.
type Check func(cat *domain.Catalog, t *domain.Timetable) (bool, []Violation)

// TeacherConflict is C1: for every (timeslot, teacher_id), at most one
// assignment.
func TeacherConflict(cat *domain.Catalog, t *domain.Timetable) (bool, []Violation) {
	seen := make(map[domain.TimeSlot]map[string]string) // ts -> teacherID -> lessonID
	var violations []Violation
	for _, a := range t.Assignments {
		byTeacher, ok := seen[a.TimeSlot]
		if !ok {
			byTeacher = make(map[string]string)
			seen[a.TimeSlot] = byTeacher
		}
		if prior, clash := byTeacher[a.TeacherID]; clash {
			violations = append(violations, Violation{
				Constraint: "C1-TeacherConflict",
				Message: fmt.Sprintf(
					"teacher %s double-booked at %s: lessons %s and %s",
					teacherLabel(cat, a.TeacherID), a.TimeSlot, prior, a.LessonID,
				),
			})
			continue
		}
		byTeacher[a.TeacherID] = a.LessonID
	}
	return len(violations) == 0, violations
}

// RoomConflict is C2: for every (timeslot, room_id), at most one assignment.
func RoomConflict(cat *domain.Catalog, t *domain.Timetable) (bool, []Violation) {
	seen := make(map[domain.TimeSlot]map[string]string) // ts -> roomID -> lessonID
	var violations []Violation
	for _, a := range t.Assignments {
		byRoom, ok := seen[a.TimeSlot]
		if !ok {
			byRoom = make(map[string]string)
			seen[a.TimeSlot] = byRoom
		}
		if prior, clash := byRoom[a.RoomID]; clash {
			violations = append(violations, Violation{
				Constraint: "C2-RoomConflict",
				Message: fmt.Sprintf(
					"room %s double-booked at %s: lessons %s and %s",
					roomLabel(cat, a.RoomID), a.TimeSlot, prior, a.LessonID,
				),
			})
			continue
		}
		byRoom[a.RoomID] = a.LessonID
	}
	return len(violations) == 0, violations
}

// ClassConflict is C3: for every (timeslot, class_id), at most one
// assignment. A multi-class Lesson contributes to each of its classes.
// Lessons of the same synchronization group may share a class at the same
// timeslot (the group is one combined block for that class).
func ClassConflict(cat *domain.Catalog, t *domain.Timetable) (bool, []Violation) {
	seen := make(map[domain.TimeSlot]map[string]string) // ts -> classID -> lessonID
	var violations []Violation
	for _, a := range t.Assignments {
		l := cat.Lessons[a.LessonID]
		if l == nil {
			continue
		}
		byClass, ok := seen[a.TimeSlot]
		if !ok {
			byClass = make(map[string]string)
			seen[a.TimeSlot] = byClass
		}
		for _, classID := range l.ClassIDs {
			prior, clash := byClass[classID]
			if clash && l.HasSync() {
				if pl := cat.Lessons[prior]; pl != nil && pl.SynchronizationID == l.SynchronizationID {
					clash = false
				}
			}
			if clash && prior != a.LessonID {
				violations = append(violations, Violation{
					Constraint: "C3-ClassConflict",
					Message: fmt.Sprintf(
						"class %s double-booked at %s: lessons %s and %s",
						classLabel(cat, classID), a.TimeSlot, prior, a.LessonID,
					),
				})
				continue
			}
			byClass[classID] = a.LessonID
		}
	}
	return len(violations) == 0, violations
}

// RoomType is C4: every assignment's room type matches its lesson's
// required room type.
func RoomType(cat *domain.Catalog, t *domain.Timetable) (bool, []Violation) {
	var violations []Violation
	for _, a := range t.Assignments {
		l := cat.Lessons[a.LessonID]
		r := cat.Rooms[a.RoomID]
		if l == nil || r == nil {
			continue
		}
		if r.Type != l.RoomTypeRequired {
			violations = append(violations, Violation{
				Constraint: "C4-RoomType",
				Message: fmt.Sprintf(
					"lesson %s requires room type %s but was placed in %s (%s) at %s",
					a.LessonID, l.RoomTypeRequired, roomLabel(cat, a.RoomID), r.Type, a.TimeSlot,
				),
			})
		}
	}
	return len(violations) == 0, violations
}

// TeacherAvailability is C5: every assignment's teacher is available at its
// timeslot.
func TeacherAvailability(cat *domain.Catalog, t *domain.Timetable) (bool, []Violation) {
	var violations []Violation
	for _, a := range t.Assignments {
		teacher := cat.Teachers[a.TeacherID]
		if teacher == nil {
			continue
		}
		if !teacher.IsAvailable(a.TimeSlot) {
			violations = append(violations, Violation{
				Constraint: "C5-TeacherAvailability",
				Message: fmt.Sprintf(
					"teacher %s unavailable at %s for lesson %s",
					teacherLabel(cat, a.TeacherID), a.TimeSlot, a.LessonID,
				),
			})
		}
	}
	return len(violations) == 0, violations
}

// LessonUnits is C6: every Lesson has exactly its declared number of
// assignments. Meaningful only against a complete Timetable; a partial one
// (mid-search) will under-report by design.
func LessonUnits(cat *domain.Catalog, t *domain.Timetable) (bool, []Violation) {
	counts := make(map[string]int)
	for _, a := range t.Assignments {
		counts[a.LessonID]++
	}
	var violations []Violation
	for _, lessonID := range cat.LessonOrder() {
		l := cat.Lessons[lessonID]
		if counts[lessonID] != l.Units {
			violations = append(violations, Violation{
				Constraint: "C6-LessonUnits",
				Message: fmt.Sprintf(
					"lesson %s has %d assignments, expected %d",
					lessonID, counts[lessonID], l.Units,
				),
			})
		}
	}
	return len(violations) == 0, violations
}

// Synchronization is C7: every synchronization group's members share an
// identical multiset of timeslots.
func Synchronization(cat *domain.Catalog, t *domain.Timetable) (bool, []Violation) {
	var violations []Violation
	for _, groupID := range cat.SyncGroupIDs() {
		members, _ := cat.SyncGroup(leaderOf(cat, groupID))
		if len(members) < 2 {
			continue
		}
		leaderSlots := multiset(t.ForLesson(members[0]))
		for _, memberID := range members[1:] {
			memberSlots := multiset(t.ForLesson(memberID))
			if !equalMultiset(leaderSlots, memberSlots) {
				violations = append(violations, Violation{
					Constraint: "C7-Synchronization",
					Message: fmt.Sprintf(
						"synchronization group %s: lesson %s timeslots differ from leader %s",
						groupID, memberID, members[0],
					),
				})
			}
		}
	}
	return len(violations) == 0, violations
}

// Integrated runs all seven constraints and unions their violations.
func Integrated(cat *domain.Catalog, t *domain.Timetable) (bool, []Violation) {
	checks := []Check{
		TeacherConflict, RoomConflict, ClassConflict,
		RoomType, TeacherAvailability, LessonUnits, Synchronization,
	}
	var all []Violation
	for _, check := range checks {
		if ok, violations := check(cat, t); !ok {
			all = append(all, violations...)
		}
	}
	return len(all) == 0, all
}

func multiset(assignments []domain.Assignment) map[domain.TimeSlot]int {
	m := make(map[domain.TimeSlot]int, len(assignments))
	for _, a := range assignments {
		m[a.TimeSlot]++
	}
	return m
}

func equalMultiset(a, b map[domain.TimeSlot]int) bool {
	if len(a) != len(b) {
		return false
	}
	for ts, n := range a {
		if b[ts] != n {
			return false
		}
	}
	return true
}

func leaderOf(cat *domain.Catalog, groupID string) string {
	for _, lessonID := range cat.LessonOrder() {
		if cat.Lessons[lessonID].SynchronizationID == groupID {
			return lessonID
		}
	}
	return ""
}

func teacherLabel(cat *domain.Catalog, id string) string {
	if t := cat.Teachers[id]; t != nil {
		return fmt.Sprintf("%s (%s)", id, t.Name)
	}
	return id
}

func roomLabel(cat *domain.Catalog, id string) string {
	if r := cat.Rooms[id]; r != nil {
		return fmt.Sprintf("%s (%s)", id, r.Name)
	}
	return id
}

func classLabel(cat *domain.Catalog, id string) string {
	if c := cat.Classes[id]; c != nil {
		return fmt.Sprintf("%s (%s)", id, c.Name)
	}
	return id
}
