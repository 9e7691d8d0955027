package cpsat

import (
	"math"

	"timetabling-UDP/internal/domain"
)

// placement is the data behind one boolean decision variable x[l,u,t,r,k]:
// "this unit of this lesson is placed at this timeslot, in this room, with
// this teacher."
type placement struct {
	LessonID  string
	Unit      int
	TimeSlot  domain.TimeSlot
	RoomID    string
	TeacherID string
}

// luKey groups placements per lesson-unit (for E1). luTKey groups them per
// lesson-unit and timeslot, for the aux-variable (Tseitin) gates used by E2
// and E6: "is this lesson-unit occupying this timeslot at all, regardless of
// room/teacher."
type luTKey struct {
	LessonID string
	Unit     int
	TimeSlot domain.TimeSlot
}

type luKey struct {
	LessonID string
	Unit     int
}

// model is the CNF encoding of one solve attempt: variables, the clauses
// built from them, and enough bookkeeping to translate a satisfying
// assignment back into a Timetable.
type model struct {
	cat *domain.Catalog

	placements []placement       // DIMACS var i+1 == placements[i]
	clauses    [][]int

	byLU  map[luKey][]int  // (lessonID, unit) -> placement var indices
	byLUT map[luTKey][]int // (lessonID, unit, timeslot) -> placement var indices
	byTT  map[teacherTsKey][]int
	byRT  map[roomTsKey][]int
	byCT  map[classTsKey][]int

	activeLUT map[luTKey]int // aux var for "lesson-unit occupies timeslot t"
}

type teacherTsKey struct {
	TeacherID string
	TimeSlot  domain.TimeSlot
}

type roomTsKey struct {
	RoomID   string
	TimeSlot domain.TimeSlot
}

type classTsKey struct {
	ClassID  string
	TimeSlot domain.TimeSlot
}

// buildModel creates every structurally valid placement variable (skipping
// teacher-unavailable and room-type-mismatched combinations, per §4.4) and
// adds constraints E1-E6, plus Q1/Q2 when quality is true.
func buildModel(cat *domain.Catalog, quality bool) *model {
	m := &model{
		cat:       cat,
		byLU:      make(map[luKey][]int),
		byLUT:     make(map[luTKey][]int),
		byTT:      make(map[teacherTsKey][]int),
		byRT:      make(map[roomTsKey][]int),
		byCT:      make(map[classTsKey][]int),
		activeLUT: make(map[luTKey]int),
	}
	m.createPlacements()

	next := &counter{next: len(m.placements)}
	m.createActiveAuxVars(next)

	m.addE1()
	m.addE2()
	m.addE3()
	m.addE4()
	m.addE5()
	m.addE6()

	if quality {
		m.addQ1(next)
		m.addQ2(next)
	}

	return m
}

func (m *model) newVar(p placement) int {
	m.placements = append(m.placements, p)
	return len(m.placements) // 1-based DIMACS index
}

func (m *model) createPlacements() {
	for _, lessonID := range m.cat.LessonOrder() {
		lesson := m.cat.Lessons[lessonID]
		rooms := m.cat.EligibleRooms(lesson)
		for u := 0; u < lesson.Units; u++ {
			for _, ts := range domain.AllTimeSlots() {
				for _, room := range rooms {
					for _, teacherID := range lesson.TeacherIDs {
						teacher := m.cat.Teachers[teacherID]
						if teacher == nil || !teacher.IsAvailable(ts) {
							continue
						}
						idx := m.newVar(placement{
							LessonID: lessonID, Unit: u, TimeSlot: ts,
							RoomID: room.ID, TeacherID: teacherID,
						})
						luk := luKey{LessonID: lessonID, Unit: u}
						m.byLU[luk] = append(m.byLU[luk], idx)
						lutKey := luTKey{LessonID: lessonID, Unit: u, TimeSlot: ts}
						m.byLUT[lutKey] = append(m.byLUT[lutKey], idx)
						m.byTT[teacherTsKey{teacherID, ts}] = append(m.byTT[teacherTsKey{teacherID, ts}], idx)
						m.byRT[roomTsKey{room.ID, ts}] = append(m.byRT[roomTsKey{room.ID, ts}], idx)
						for _, classID := range lesson.ClassIDs {
							m.byCT[classTsKey{classID, ts}] = append(m.byCT[classTsKey{classID, ts}], idx)
						}
					}
				}
			}
		}
	}
}

// createActiveAuxVars links one Tseitin aux var per (lesson, unit,
// timeslot) bucket that has at least one placement variable, for every
// lesson with more than one unit or a synchronization group (the only
// consumers of these aux vars, E2 and E6).
func (m *model) createActiveAuxVars(next *counter) {
	for _, lessonID := range m.cat.LessonOrder() {
		lesson := m.cat.Lessons[lessonID]
		if lesson.Units <= 1 && !lesson.HasSync() {
			continue
		}
		for u := 0; u < lesson.Units; u++ {
			for _, ts := range domain.AllTimeSlots() {
				key := luTKey{LessonID: lessonID, Unit: u, TimeSlot: ts}
				group := m.byLUT[key]
				if len(group) == 0 {
					continue
				}
				aux := next.alloc()
				m.activeLUT[key] = aux
				for _, v := range group {
					m.clauses = append(m.clauses, []int{-v, aux})
				}
				m.clauses = append(m.clauses, atLeastOne(append([]int{-aux}, group...)))
			}
		}
	}
}

// addE1 realizes C6: for each (lesson, unit), exactly one placement var is true.
func (m *model) addE1() {
	for _, lessonID := range m.cat.LessonOrder() {
		lesson := m.cat.Lessons[lessonID]
		for u := 0; u < lesson.Units; u++ {
			vars := m.byLU[luKey{lessonID, u}]
			m.clauses = append(m.clauses, exactlyOne(vars)...)
		}
	}
}

// addE2 forbids a lesson's distinct units from sharing a timeslot, using
// the active(l,u,t) aux bits.
func (m *model) addE2() {
	for _, lessonID := range m.cat.LessonOrder() {
		lesson := m.cat.Lessons[lessonID]
		if lesson.Units <= 1 {
			continue
		}
		for _, ts := range domain.AllTimeSlots() {
			var auxVars []int
			for u := 0; u < lesson.Units; u++ {
				if aux, ok := m.activeLUT[luTKey{lessonID, u, ts}]; ok {
					auxVars = append(auxVars, aux)
				}
			}
			m.clauses = append(m.clauses, atMostOnePairwise(auxVars)...)
		}
	}
}

// addE3 realizes C1: at most one placement per (teacher, timeslot).
func (m *model) addE3() {
	for _, group := range m.byTT {
		m.clauses = append(m.clauses, atMostOnePairwise(group)...)
	}
}

// addE4 realizes C2: at most one placement per (room, timeslot).
func (m *model) addE4() {
	for _, group := range m.byRT {
		m.clauses = append(m.clauses, atMostOnePairwise(group)...)
	}
}

// addE5 realizes C3: at most one placement per (class, timeslot), except
// that two lessons of the same synchronization group may share the slot.
func (m *model) addE5() {
	for _, group := range m.byCT {
		for i := 0; i < len(group); i++ {
			li := m.cat.Lessons[m.placements[group[i]-1].LessonID]
			for j := i + 1; j < len(group); j++ {
				lj := m.cat.Lessons[m.placements[group[j]-1].LessonID]
				if li.ID != lj.ID && li.HasSync() && li.SynchronizationID == lj.SynchronizationID {
					continue
				}
				m.clauses = append(m.clauses, []int{-group[i], -group[j]})
			}
		}
	}
}

// addE6 realizes C7: for each synchronization group, every non-leader
// lesson's active(u,t) bit matches the leader's.
func (m *model) addE6() {
	for _, groupID := range m.cat.SyncGroupIDs() {
		members := m.groupMembers(groupID)
		if len(members) < 2 {
			continue
		}
		leaderID := members[0]
		leaderUnits := m.cat.Lessons[leaderID].Units
		for _, memberID := range members[1:] {
			memberUnits := m.cat.Lessons[memberID].Units
			units := leaderUnits
			if memberUnits < units {
				units = memberUnits
			}
			for u := 0; u < units; u++ {
				for _, ts := range domain.AllTimeSlots() {
					leaderAux, lok := m.activeLUT[luTKey{leaderID, u, ts}]
					memberAux, mok := m.activeLUT[luTKey{memberID, u, ts}]
					switch {
					case lok && mok:
						m.clauses = append(m.clauses, biconditional(leaderAux, memberAux)...)
					case lok:
						m.clauses = append(m.clauses, []int{-leaderAux})
					case mok:
						m.clauses = append(m.clauses, []int{-memberAux})
					}
				}
			}
		}
	}
}

func (m *model) groupMembers(groupID string) []string {
	for _, lessonID := range m.cat.LessonOrder() {
		if m.cat.Lessons[lessonID].SynchronizationID == groupID {
			members, _ := m.cat.SyncGroup(lessonID)
			return members
		}
	}
	return nil
}

// addQ1 realizes the optional same-subject daily cap: for each class,
// subject and weekday, the number of placements is bounded by
// ceil(total weekly units for that class/subject / 5).
func (m *model) addQ1(next *counter) {
	type classSubject struct{ ClassID, Subject string }
	totalUnits := make(map[classSubject]int)
	for _, lessonID := range m.cat.LessonOrder() {
		lesson := m.cat.Lessons[lessonID]
		for _, classID := range lesson.ClassIDs {
			totalUnits[classSubject{classID, lesson.Subject}] += lesson.Units
		}
	}

	for cs, total := range totalUnits {
		dailyCap := int(math.Ceil(float64(total) / float64(domain.DaysPerWeek)))
		for _, d := range domain.Weekdays {
			var vars []int
			for p := 1; p <= domain.PeriodsPerDay; p++ {
				ts := domain.TimeSlot{Weekday: d, Period: p}
				for _, lessonID := range m.cat.LessonOrder() {
					lesson := m.cat.Lessons[lessonID]
					if lesson.Subject != cs.Subject || !lesson.HasClass(cs.ClassID) {
						continue
					}
					for u := 0; u < lesson.Units; u++ {
						vars = append(vars, m.byLUT[luTKey{lessonID, u, ts}]...)
					}
				}
			}
			if len(vars) > dailyCap {
				m.clauses = append(m.clauses, atMostK(vars, dailyCap, next)...)
			}
		}
	}
}

// addQ2 realizes the optional no-mid-day-gap rule: for each class and
// weekday, the six per-period "class is active" bits must form a single
// contiguous block (at most two 0<->1 transitions once padded with 0 at
// both ends).
func (m *model) addQ2(next *counter) {
	for _, classID := range m.classIDs() {
		for _, d := range domain.Weekdays {
			active := make([]int, domain.PeriodsPerDay)
			for p := 1; p <= domain.PeriodsPerDay; p++ {
				ts := domain.TimeSlot{Weekday: d, Period: p}
				group := m.byCT[classTsKey{classID, ts}]
				if len(group) == 0 {
					active[p-1] = 0
					continue
				}
				aux := next.alloc()
				active[p-1] = aux
				for _, v := range group {
					m.clauses = append(m.clauses, []int{-v, aux})
				}
				m.clauses = append(m.clauses, atLeastOne(append([]int{-aux}, group...)))
			}

			padded := append([]int{0}, active...)
			padded = append(padded, 0)

			var transitions []int
			for i := 1; i < len(padded); i++ {
				a, b := padded[i-1], padded[i]
				if a == 0 && b == 0 {
					continue // structurally no transition possible
				}
				t := next.alloc()
				if a == 0 {
					// transition == b
					m.clauses = append(m.clauses, biconditional(t, b)...)
				} else if b == 0 {
					m.clauses = append(m.clauses, biconditional(t, a)...)
				} else {
					m.clauses = append(m.clauses, xorClauses(t, a, b)...)
				}
				transitions = append(transitions, t)
			}
			if len(transitions) > 2 {
				m.clauses = append(m.clauses, atMostK(transitions, 2, next)...)
			}
		}
	}
}

func (m *model) classIDs() []string {
	var ids []string
	for id := range m.cat.Classes {
		ids = append(ids, id)
	}
	return ids
}
