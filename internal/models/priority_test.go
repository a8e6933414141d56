package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriority_RankOrdering(t *testing.T) {
	assert.Greater(t, PriorityCritical.Rank(), PriorityHigh.Rank())
	assert.Greater(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	assert.Greater(t, PriorityMedium.Rank(), PriorityLow.Rank())
	assert.Greater(t, PriorityLow.Rank(), PriorityNone.Rank())
}

func TestPriority_UnknownRanksAsNone(t *testing.T) {
	assert.Equal(t, PriorityNone.Rank(), Priority("urgent").Rank())
}

func TestPriority_Meets(t *testing.T) {
	assert.True(t, PriorityCritical.Meets(PriorityHigh))
	assert.True(t, PriorityHigh.Meets(PriorityHigh))
	assert.False(t, PriorityMedium.Meets(PriorityHigh))
	assert.True(t, PriorityLow.Meets(PriorityNone))
}

func TestVIPAthlete_Matches(t *testing.T) {
	byID := VIPAthlete{ID: "ath1"}
	assert.True(t, byID.Matches("ath1", "Anyone"))
	assert.False(t, byID.Matches("ath2", "Anyone"))

	byName := VIPAthlete{Name: " Jo Rider "}
	assert.True(t, byName.Matches("", "jo rider"))
	assert.True(t, byName.Matches("other", "JO RIDER"))
	assert.False(t, byName.Matches("", "Jo Runner"))

	empty := VIPAthlete{}
	assert.False(t, empty.Matches("ath1", "Jo Rider"))
}

func TestActivity_DisplayType(t *testing.T) {
	assert.Equal(t, "Virtual Ride", (&Activity{ActivityType: "VirtualRide"}).DisplayType())
	assert.Equal(t, "Ride", (&Activity{ActivityType: "Ride"}).DisplayType())
}
