package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriorityTrackerAllPassed(t *testing.T) {
	pt := NewPriorityTracker([]string{"p1", "p2"})

	assert.False(t, pt.Pass("p1"))
	assert.Equal(t, 1, pt.Passes())
	assert.True(t, pt.Pass("p2"))

	pt.Reset()
	assert.False(t, pt.AllPassed())
	assert.Equal(t, 0, pt.Passes())
}

func TestPriorityTrackerActionResetsCount(t *testing.T) {
	pt := NewPriorityTracker([]string{"p1", "p2", "p3"})
	pt.Pass("p1")
	pt.Pass("p2")
	pt.Reset() // p3 acted
	assert.False(t, pt.Pass("p3"))
	assert.False(t, pt.Pass("p1"))
	assert.True(t, pt.Pass("p2"))
}

func TestPriorityTrackerNextAndAPNAP(t *testing.T) {
	pt := NewPriorityTracker([]string{"p1", "p2", "p3"})
	assert.Equal(t, "p2", pt.Next("p1"))
	assert.Equal(t, "p1", pt.Next("p3"))
	assert.Equal(t, []string{"p2", "p3", "p1"}, pt.APNAP("p2"))

	pt.SetPlayers([]string{"p1", "p3"})
	assert.Equal(t, "p3", pt.Next("p1"))
	assert.False(t, pt.Pass("p1"))
	assert.True(t, pt.Pass("p3"))
}
