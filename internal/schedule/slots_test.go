package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlotsGrid(t *testing.T) {
	slots := Slots()
	assert.Len(t, slots, 32)
	assert.Equal(t, "08:00", slots[0])
	assert.Equal(t, "08:30", slots[1])
	assert.Equal(t, "23:30", slots[len(slots)-1])
}

func TestIsValid(t *testing.T) {
	for _, s := range Slots() {
		assert.True(t, IsValid(s), s)
	}

	invalid := []string{"", "8:00", "07:30", "24:00", "12:15", "12:60", "noon", "12-30"}
	for _, s := range invalid {
		assert.False(t, IsValid(s), s)
	}
}
