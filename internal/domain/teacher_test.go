package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewTeacherDefaultsAllAvailable(t *testing.T) {
	teacher := NewTeacher("T1", "Ada")
	for _, ts := range AllTimeSlots() {
		assert.True(t, teacher.IsAvailable(ts))
	}
}

func TestSetAvailableNarrowsAvailability(t *testing.T) {
	teacher := NewTeacher("T7", "Grace")
	blocked := TimeSlot{Weekday: Wednesday, Period: 5}
	teacher.SetAvailable(blocked, false)

	assert.False(t, teacher.IsAvailable(blocked))
	assert.True(t, teacher.IsAvailable(TimeSlot{Weekday: Wednesday, Period: 6}))
	assert.True(t, teacher.IsAvailable(TimeSlot{Weekday: Monday, Period: 1}))
}
