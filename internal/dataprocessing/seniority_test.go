package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sgjobs/internal/config"
)

func TestSeniorityMapper(t *testing.T) {
	tests := []struct {
		name          string
		positionLevel string
		expectedTier  string
		expectedOK    bool
	}{
		{"fresh entry level", "Fresh/entry level", "Entry", true},
		{"non-executive", "Non-executive", "Entry", true},
		{"junior executive", "Junior Executive", "Mid", true},
		{"executive", "Executive", "Mid", true},
		{"professional", "Professional", "Senior", true},
		{"senior executive", "Senior Executive", "Senior", true},
		{"manager", "Manager", "Management", true},
		{"middle management", "Middle Management", "Management", true},
		{"senior management", "Senior Management", "Management", true},
		{"unknown level", "Apprentice", config.SeniorityUnknown, false},
		{"empty level", "", config.SeniorityUnknown, false},
		{"case sensitive", "manager", config.SeniorityUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapper := NewSeniorityMapper(config.DefaultSeniorityMap())
			tier, ok := mapper.Map(tt.positionLevel)
			assert.Equal(t, tt.expectedTier, tier)
			assert.Equal(t, tt.expectedOK, ok)
		})
	}
}

func TestSeniorityMapperUnmappedCount(t *testing.T) {
	mapper := NewSeniorityMapper(config.DefaultSeniorityMap())

	mapper.Map("Manager")
	mapper.Map("Apprentice")
	mapper.Map("Apprentice")
	mapper.Map("Intern")

	assert.Equal(t, 3, mapper.UnmappedCount())
}

func TestDefaultSeniorityMapCoversFourTiers(t *testing.T) {
	seen := make(map[string]bool)
	for _, tier := range config.DefaultSeniorityMap() {
		seen[tier] = true
	}
	for _, tier := range config.SeniorityTiers() {
		assert.True(t, seen[tier], "tier %s has no mapped position level", tier)
	}
	assert.Len(t, config.DefaultSeniorityMap(), 9)
}
