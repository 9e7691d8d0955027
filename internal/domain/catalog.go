package domain

// Catalog is the loaded, validated collection of scheduling entities a
// solve runs against: the teacher/whatever the reference repository calls
// its University aggregate. Every lookup here is by stable string ID, never
// by pointer — the reference source at one point keyed decision variables
// by object identity, which is exactly the anti-pattern this data model
// must not repeat.
type Catalog struct {
	Teachers map[string]*Teacher
	Rooms    map[string]*Room
	Classes  map[string]*Class
	Lessons  map[string]*Lesson

	// lessonOrder and roomOrder preserve insertion order for deterministic
	// iteration (candidate ordering, sync-group leader selection) since Go
	// map iteration order is randomized.
	lessonOrder []string
	roomOrder   []string

	// syncGroups maps a synchronization_id to its member lesson IDs in
	// insertion order; the first entry is the leader (§9).
	syncGroups map[string][]string
	// syncGroupOf maps a lesson ID to its synchronization_id, for lessons
	// that have one.
	syncGroupOf map[string]string

	// duplicates records IDs passed to Add* more than once, keyed by
	// collection name ("teacher", "room", "class", "lesson"), so a later
	// validation pass can report them even though the underlying maps only
	// ever hold the last write.
	duplicates map[string][]string
}

// NewCatalog builds an empty Catalog ready for incremental population via
// AddTeacher/AddRoom/AddClass/AddLesson.
func NewCatalog() *Catalog {
	return &Catalog{
		Teachers:    make(map[string]*Teacher),
		Rooms:       make(map[string]*Room),
		Classes:     make(map[string]*Class),
		Lessons:     make(map[string]*Lesson),
		syncGroups:  make(map[string][]string),
		syncGroupOf: make(map[string]string),
		duplicates:  make(map[string][]string),
	}
}

// AddTeacher registers t, overwriting any previous entry with the same ID
// (and recording the collision — see DuplicateIDs).
func (c *Catalog) AddTeacher(t *Teacher) {
	if _, exists := c.Teachers[t.ID]; exists {
		c.duplicates["teacher"] = append(c.duplicates["teacher"], t.ID)
	}
	c.Teachers[t.ID] = t
}

// AddRoom registers r, overwriting any previous entry with the same ID and
// recording insertion order.
func (c *Catalog) AddRoom(r *Room) {
	if _, exists := c.Rooms[r.ID]; !exists {
		c.roomOrder = append(c.roomOrder, r.ID)
	} else {
		c.duplicates["room"] = append(c.duplicates["room"], r.ID)
	}
	c.Rooms[r.ID] = r
}

// RoomOrder returns room IDs in the order they were added.
func (c *Catalog) RoomOrder() []string {
	return c.roomOrder
}

// AddClass registers cl, overwriting any previous entry with the same ID
// (and recording the collision — see DuplicateIDs).
func (c *Catalog) AddClass(cl *Class) {
	if _, exists := c.Classes[cl.ID]; exists {
		c.duplicates["class"] = append(c.duplicates["class"], cl.ID)
	}
	c.Classes[cl.ID] = cl
}

// AddLesson registers l, recording insertion order and, if l belongs to a
// synchronization group, appending it to that group's roster (the first
// lesson added to a group becomes its leader).
func (c *Catalog) AddLesson(l *Lesson) {
	if _, exists := c.Lessons[l.ID]; !exists {
		c.lessonOrder = append(c.lessonOrder, l.ID)
	} else {
		c.duplicates["lesson"] = append(c.duplicates["lesson"], l.ID)
	}
	c.Lessons[l.ID] = l
	if l.HasSync() {
		c.syncGroups[l.SynchronizationID] = append(c.syncGroups[l.SynchronizationID], l.ID)
		c.syncGroupOf[l.ID] = l.SynchronizationID
	}
}

// DuplicateIDs returns the IDs that were registered more than once under
// collection, one of "teacher", "room", "class", "lesson".
func (c *Catalog) DuplicateIDs(collection string) []string {
	return c.duplicates[collection]
}

// LessonOrder returns lesson IDs in the order they were added.
func (c *Catalog) LessonOrder() []string {
	return c.lessonOrder
}

// SyncGroup returns the ordered member lesson IDs of the synchronization
// group lessonID belongs to (member[0] is the leader), and whether lessonID
// is in any group at all.
func (c *Catalog) SyncGroup(lessonID string) ([]string, bool) {
	groupID, ok := c.syncGroupOf[lessonID]
	if !ok {
		return nil, false
	}
	return c.syncGroups[groupID], true
}

// IsGroupLeader reports whether lessonID is the first (by insertion order)
// member of its synchronization group. A lesson with no group is considered
// its own leader.
func (c *Catalog) IsGroupLeader(lessonID string) bool {
	members, ok := c.SyncGroup(lessonID)
	if !ok {
		return true
	}
	return members[0] == lessonID
}

// SyncGroupIDs returns the synchronization_id of every group, single-member
// groups included, in first-seen order.
func (c *Catalog) SyncGroupIDs() []string {
	var ids []string
	seen := make(map[string]bool)
	for _, lessonID := range c.lessonOrder {
		groupID, ok := c.syncGroupOf[lessonID]
		if !ok || seen[groupID] {
			continue
		}
		seen[groupID] = true
		ids = append(ids, groupID)
	}
	return ids
}

// EligibleTeachers returns the subset of l's TeacherIDs that resolve to a
// known Teacher and are available at ts.
func (c *Catalog) EligibleTeachers(l *Lesson, ts TimeSlot) []string {
	var out []string
	for _, id := range l.TeacherIDs {
		t, ok := c.Teachers[id]
		if ok && t.IsAvailable(ts) {
			out = append(out, id)
		}
	}
	return out
}

// EligibleRooms returns the Rooms matching l's RoomTypeRequired, in Catalog
// room insertion order.
func (c *Catalog) EligibleRooms(l *Lesson) []*Room {
	var out []*Room
	for _, id := range c.roomOrder {
		r := c.Rooms[id]
		if r.Type == l.RoomTypeRequired {
			out = append(out, r)
		}
	}
	return out
}
