// Package ingest is the thin external-collaborator CSV reader for the
// teachers/rooms/classes/lessons schema the core depends on the semantics
// of but does not itself own (§6). It is deliberately the simplest possible
// reader: typed records in, a *domain.Catalog out, nothing more.
package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"timetabling-UDP/internal/domain"
)

// LoadCSV opens path and reads it as CSV, the header row included, the way
// the reference loader's LoadCSV does.
func LoadCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return records, nil
}

// Paths names the four input files ingest.Catalog reads.
type Paths struct {
	Teachers string
	Rooms    string
	Classes  string
	Lessons  string
}

// Catalog reads all four files named by p and builds a domain.Catalog.
// Column order within each file must match the documented header; rows are
// otherwise addressed by column index, not by name, since the schema is
// fixed (§6).
func Catalog(p Paths) (*domain.Catalog, error) {
	cat := domain.NewCatalog()

	teacherRows, err := LoadCSV(p.Teachers)
	if err != nil {
		return nil, err
	}
	for _, row := range dataRows(teacherRows) {
		t, err := parseTeacher(row)
		if err != nil {
			return nil, err
		}
		cat.AddTeacher(t)
	}

	roomRows, err := LoadCSV(p.Rooms)
	if err != nil {
		return nil, err
	}
	for _, row := range dataRows(roomRows) {
		r, err := parseRoom(row)
		if err != nil {
			return nil, err
		}
		cat.AddRoom(r)
	}

	classRows, err := LoadCSV(p.Classes)
	if err != nil {
		return nil, err
	}
	for _, row := range dataRows(classRows) {
		c, err := parseClass(row)
		if err != nil {
			return nil, err
		}
		cat.AddClass(c)
	}

	lessonRows, err := LoadCSV(p.Lessons)
	if err != nil {
		return nil, err
	}
	for _, row := range dataRows(lessonRows) {
		l, err := parseLesson(row)
		if err != nil {
			return nil, err
		}
		cat.AddLesson(l)
	}

	return cat, nil
}

// dataRows drops the header row a CSV file is expected to carry.
func dataRows(records [][]string) [][]string {
	if len(records) <= 1 {
		return nil
	}
	return records[1:]
}

// parseTeacher reads teacher_id, teacher_name, optional availability_matrix
// (five ';'-separated day rows of six comma-separated 0/1 values).
func parseTeacher(row []string) (*domain.Teacher, error) {
	if len(row) < 2 {
		return nil, fmt.Errorf("teacher row %v: expected at least 2 columns", row)
	}
	t := domain.NewTeacher(row[0], row[1])
	if len(row) < 3 || strings.TrimSpace(row[2]) == "" {
		return t, nil
	}
	days := strings.Split(row[2], ";")
	if len(days) != domain.DaysPerWeek {
		return nil, fmt.Errorf("teacher %q: availability_matrix has %d day rows, expected %d", t.ID, len(days), domain.DaysPerWeek)
	}
	for dayIdx, dayRow := range days {
		periods := strings.Split(dayRow, ",")
		if len(periods) != domain.PeriodsPerDay {
			return nil, fmt.Errorf("teacher %q: day %d has %d periods, expected %d", t.ID, dayIdx, len(periods), domain.PeriodsPerDay)
		}
		for periodIdx, bit := range periods {
			available := strings.TrimSpace(bit) != "0"
			t.SetAvailable(domain.TimeSlot{Weekday: domain.Weekday(dayIdx), Period: periodIdx + 1}, available)
		}
	}
	return t, nil
}

// parseRoom reads room_id, room_name, room_type, capacity. Unlike the
// reference ingest, an unrecognized room_type is a hard error rather than a
// silent fallback to GENERAL (§9).
func parseRoom(row []string) (*domain.Room, error) {
	if len(row) < 4 {
		return nil, fmt.Errorf("room row %v: expected 4 columns", row)
	}
	roomType, ok := domain.ParseRoomType(strings.ToLower(strings.TrimSpace(row[2])))
	if !ok {
		return nil, fmt.Errorf("room %q: unknown room_type %q", row[0], row[2])
	}
	capacity, err := strconv.Atoi(strings.TrimSpace(row[3]))
	if err != nil {
		return nil, fmt.Errorf("room %q: invalid capacity %q: %w", row[0], row[3], err)
	}
	return &domain.Room{ID: row[0], Name: row[1], Type: roomType, Capacity: capacity}, nil
}

// parseClass reads class_id, class_name, size.
func parseClass(row []string) (*domain.Class, error) {
	if len(row) < 3 {
		return nil, fmt.Errorf("class row %v: expected 3 columns", row)
	}
	size, err := strconv.Atoi(strings.TrimSpace(row[2]))
	if err != nil {
		return nil, fmt.Errorf("class %q: invalid size %q: %w", row[0], row[2], err)
	}
	return &domain.Class{ID: row[0], Name: row[1], Size: size}, nil
}

// parseLesson reads lesson_id, subject, units, teacher_ids (comma-joined),
// class_ids (comma-joined), room_type, optional synchronization_id.
func parseLesson(row []string) (*domain.Lesson, error) {
	if len(row) < 6 {
		return nil, fmt.Errorf("lesson row %v: expected at least 6 columns", row)
	}
	units, err := strconv.Atoi(strings.TrimSpace(row[2]))
	if err != nil {
		return nil, fmt.Errorf("lesson %q: invalid units %q: %w", row[0], row[2], err)
	}
	roomType, ok := domain.ParseRoomType(strings.ToLower(strings.TrimSpace(row[5])))
	if !ok {
		return nil, fmt.Errorf("lesson %q: unknown room_type %q", row[0], row[5])
	}
	l := &domain.Lesson{
		ID:               row[0],
		Subject:          row[1],
		Units:            units,
		TeacherIDs:       splitCSV(row[3]),
		ClassIDs:         splitCSV(row[4]),
		RoomTypeRequired: roomType,
	}
	if len(row) >= 7 {
		l.SynchronizationID = strings.TrimSpace(row[6])
	}
	return l, nil
}

func splitCSV(field string) []string {
	var out []string
	for _, part := range strings.Split(field, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
