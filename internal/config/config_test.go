package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "observer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
input:
  file: /var/log/p0f.log
  timezone: Asia/Shanghai
output:
  format: kafka
  echo: true
kafka:
  brokers: ["k1:9092", "k2:9092"]
  topic: fingerprints
pipeline:
  workers: 8
  strict: true
  modules: ["syn", "syn+ack"]
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/var/log/p0f.log", cfg.Input.File)
	assert.Equal(t, "Asia/Shanghai", cfg.Input.Timezone)
	assert.Equal(t, FormatKafka, cfg.Output.Format)
	assert.True(t, cfg.Output.Echo)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "fingerprints", cfg.Kafka.Topic)
	assert.Equal(t, 8, cfg.Pipeline.Workers)
	assert.True(t, cfg.Pipeline.Strict)
	assert.Equal(t, []string{"syn", "syn+ack"}, cfg.Pipeline.Modules)

	// untouched sections keep their defaults
	assert.Equal(t, 256, cfg.Pipeline.BatchSize)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.NATS.URL)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")

	_, err = LoadConfig(writeConfig(t, "pipeline: [unclosed"))
	assert.ErrorContains(t, err, "failed to unmarshal config YAML")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"no input", func(c *Config) { c.Input.File = "" }, "input.file"},
		{"bad timezone", func(c *Config) { c.Input.Timezone = "Mars/Olympus" }, "input.timezone"},
		{"bad display timezone", func(c *Config) { c.Output.DisplayTimezone = "Nowhere" }, "output.display_timezone"},
		{"zero workers", func(c *Config) { c.Pipeline.Workers = 0 }, "pipeline.workers"},
		{"zero batch", func(c *Config) { c.Pipeline.BatchSize = 0 }, "pipeline.batch_size"},
		{"unknown format", func(c *Config) { c.Output.Format = "xml" }, `unknown output.format "xml"`},
		{"kafka without topic", func(c *Config) { c.Output.Format = FormatKafka; c.Kafka.Topic = "" }, "kafka.topic"},
		{"nats without url", func(c *Config) { c.Output.Format = FormatNATS; c.NATS.URL = "" }, "nats.url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}
