package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sgjobs/internal/config"
)

func TestRoleClassifier(t *testing.T) {
	classifier := NewRoleClassifier(config.DefaultRoleKeywords())

	tests := []struct {
		name     string
		title    string
		expected string
	}{
		// Specific families must win over the generic Manager rule.
		{"senior nurse outranks manager keywords", "Senior Registered Nurse", "Healthcare"},
		{"sales manager is sales", "Sales Manager", "Sales"},
		{"finance director is finance", "Finance Director", "Finance"},
		{"marketing lead is marketing", "Marketing Lead", "Marketing"},

		{"software engineer is developer", "Software Engineer", "Developer"},
		{"mechanical engineer", "Mechanical Engineer", "Engineer"},
		{"data analyst", "Data Analyst", "Analyst"},
		{"devops", "DevOps Specialist", "IT/Systems"},

		{"case insensitive", "SOFTWARE DEVELOPER", "Developer"},
		{"substring match", "Lead Backend Developer (Payments)", "Developer"},

		{"teacher", "Primary School Teacher", "Education"},
		{"accountant", "Senior Accountant", "Finance"},
		{"recruiter", "Talent Acquisition Recruiter", "HR"},
		{"warehouse", "Warehouse Supervisor", "Operations"},
		{"admin assistant", "Admin Assistant", "Admin"},
		{"barista", "Barista (Full Time)", "Retail/F&B"},
		{"cjk keyword", "店员", "Retail/F&B"},
		{"delivery rider", "Delivery Rider", "Driver"},

		{"generic manager falls through to manager", "Regional General Manager", "Manager"},
		{"consultant", "Strategy Consultant", "Consultant"},

		{"no match is other", "Astronaut", config.RoleOther},
		{"empty title is other", "", config.RoleOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifier.Classify(tt.title))
		})
	}
}

func TestRoleClassifierFirstMatchWins(t *testing.T) {
	rules := []config.RoleRule{
		{Family: "A", Keywords: []string{"alpha"}},
		{Family: "B", Keywords: []string{"alpha", "beta"}},
	}
	classifier := NewRoleClassifier(rules)

	assert.Equal(t, "A", classifier.Classify("Alpha Beta"))
	assert.Equal(t, "B", classifier.Classify("Beta only"))
}

func TestDefaultRoleKeywordsHasSixteenFamilies(t *testing.T) {
	assert.Len(t, config.DefaultRoleKeywords(), 16)
}
