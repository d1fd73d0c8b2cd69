package dataprocessing

import (
	"log/slog"
	"sort"

	"sgjobs/internal/config"
)

// SeniorityMapper maps raw position levels onto the four seniority tiers.
// The mapping is total over the known domain; values outside it map to the
// Unknown sentinel and are counted as data-quality defects.
type SeniorityMapper struct {
	tiers    map[string]string
	unmapped map[string]int
}

// NewSeniorityMapper builds a mapper from the configured tier table.
func NewSeniorityMapper(tiers map[string]string) *SeniorityMapper {
	return &SeniorityMapper{
		tiers:    tiers,
		unmapped: make(map[string]int),
	}
}

// Map returns the tier for a raw position level. The second return value
// is false when the level was outside the known domain.
func (m *SeniorityMapper) Map(positionLevel string) (string, bool) {
	if tier, ok := m.tiers[positionLevel]; ok {
		return tier, true
	}
	m.unmapped[positionLevel]++
	return config.SeniorityUnknown, false
}

// UnmappedCount returns the total number of rows that fell outside the
// known position-level domain.
func (m *SeniorityMapper) UnmappedCount() int {
	total := 0
	for _, n := range m.unmapped {
		total += n
	}
	return total
}

// LogUnmapped surfaces every unmapped raw value with its occurrence count.
func (m *SeniorityMapper) LogUnmapped(logger *slog.Logger) {
	if len(m.unmapped) == 0 {
		return
	}

	values := make([]string, 0, len(m.unmapped))
	for v := range m.unmapped {
		values = append(values, v)
	}
	sort.Strings(values)

	for _, v := range values {
		logger.Warn("unmapped position level",
			slog.String("position_level", v),
			slog.Int("rows", m.unmapped[v]))
	}
}
