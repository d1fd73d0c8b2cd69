package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.validate())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.NotEmpty(t, cfg.Pipeline.SeniorityMap)
	assert.NotEmpty(t, cfg.Pipeline.RoleKeywords)
	assert.NotEmpty(t, cfg.Pipeline.ExperienceBands)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SGJOBS_CONFIG_FILE", "")
	t.Setenv("SGJOBS_SERVER_PORT", "9090")
	t.Setenv("SGJOBS_PIPELINE_SALARY_FLOOR", "600")
	t.Setenv("SGJOBS_PIPELINE_STRICT_MODE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.InDelta(t, 600.0, cfg.Pipeline.SalaryFloor, 1e-9)
	assert.True(t, cfg.Pipeline.StrictMode)
	// Untouched values keep their tag defaults.
	assert.InDelta(t, 50000.0, cfg.Pipeline.SalaryCeiling, 1e-9)
}

func TestLoadFromYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
paths:
  data_dir: /var/lib/sgjobs
pipeline:
  seniority_map:
    Professional: Senior
  experience_bands:
    - min: 0
      max: 5
      label: junior
    - min: 6
      max: 999
      label: senior
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("SGJOBS_CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/sgjobs", cfg.Paths.DataDir)
	assert.Equal(t, map[string]string{"Professional": "Senior"}, cfg.Pipeline.SeniorityMap)
	require.Len(t, cfg.Pipeline.ExperienceBands, 2)
	assert.Equal(t, "junior", cfg.Pipeline.ExperienceBands[0].Label)
	// Tables absent from the file keep their defaults.
	assert.NotEmpty(t, cfg.Pipeline.RoleKeywords)
}

func TestPipelineValidation(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*PipelineConfig)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			modify: func(p *PipelineConfig) {},
		},
		{
			name:    "floor above ceiling",
			modify:  func(p *PipelineConfig) { p.SalaryFloor = 60000 },
			wantErr: "salary floor",
		},
		{
			name:    "inverted winsor percentiles",
			modify:  func(p *PipelineConfig) { p.WinsorLower, p.WinsorUpper = 0.99, 0.01 },
			wantErr: "winsor percentiles",
		},
		{
			name:    "non-positive iqr multiplier",
			modify:  func(p *PipelineConfig) { p.IQRMultiplier = 0 },
			wantErr: "IQR multiplier",
		},
		{
			name:    "non-positive experience cap",
			modify:  func(p *PipelineConfig) { p.MaxExperienceYears = 0 },
			wantErr: "experience cap",
		},
		{
			name: "inverted experience band",
			modify: func(p *PipelineConfig) {
				p.ExperienceBands = []ExperienceBand{{Min: 5, Max: 2, Label: "broken"}}
			},
			wantErr: "experience band",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPipeline()
			tt.modify(&p)
			err := p.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestPathsResolution(t *testing.T) {
	paths := PathsConfig{
		DataDir:    "data",
		RawFile:    "raw/SGJobData.csv",
		BronzeFile: "bronze/sg_jobs_bronze.parquet",
		SilverFile: "silver/sg_jobs_silver.parquet",
		GoldDir:    "gold",
	}

	assert.Equal(t, filepath.Join("data", "raw", "SGJobData.csv"), paths.Raw())
	assert.Equal(t, filepath.Join("data", "bronze", "sg_jobs_bronze.parquet"), paths.Bronze())
	assert.Equal(t, filepath.Join("data", "gold", "agg_competition.parquet"), paths.Gold("agg_competition"))
	assert.Equal(t, filepath.Join("data", "gold", "summary.json"), paths.Summary())

	// Absolute overrides bypass the data dir entirely.
	paths.RawFile = "/mnt/ingest/jobs.csv"
	assert.Equal(t, "/mnt/ingest/jobs.csv", paths.Raw())
}
