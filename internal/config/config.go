package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"
)

// InputConfig describes where log lines come from.
type InputConfig struct {
	File         string `yaml:"file"`
	MaxLineBytes int    `yaml:"max_line_bytes"`
	// Timezone p0f wrote its timestamps in, as an IANA name.
	Timezone string `yaml:"timezone"`
}

// OutputConfig selects the sink records are written to.
type OutputConfig struct {
	Format string `yaml:"format"`
	// DisplayTimezone only affects the text format.
	DisplayTimezone string `yaml:"display_timezone"`
	Color           bool   `yaml:"color"`
	// Echo also writes text lines to stdout when publishing to a broker.
	Echo bool `yaml:"echo"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type NATSConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// PipelineConfig controls batch parsing.
type PipelineConfig struct {
	Workers   int      `yaml:"workers"`
	BatchSize int      `yaml:"batch_size"`
	Strict    bool     `yaml:"strict"`
	Modules   []string `yaml:"modules"`
}

// Config is the top-level configuration struct for the observer.
type Config struct {
	LogLevel string         `yaml:"log_level"`
	Input    InputConfig    `yaml:"input"`
	Output   OutputConfig   `yaml:"output"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	NATS     NATSConfig     `yaml:"nats"`
	Pipeline PipelineConfig `yaml:"pipeline"`
}

const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatKafka = "kafka"
	FormatNATS  = "nats"
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		LogLevel: "warn",
		Input: InputConfig{
			File:     "-",
			Timezone: "UTC",
		},
		Output: OutputConfig{
			Format:          FormatText,
			DisplayTimezone: "Local",
		},
		Kafka: KafkaConfig{
			Brokers: []string{"127.0.0.1:9092"},
			Topic:   "p0f",
		},
		NATS: NATSConfig{
			URL:     "nats://127.0.0.1:4222",
			Subject: "p0f",
		},
		Pipeline: PipelineConfig{
			Workers:   4,
			BatchSize: 256,
		},
	}
}

// LoadConfig reads a YAML file on top of the defaults.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}
	return cfg, nil
}

// Validate checks the values a run depends on.
func (c *Config) Validate() error {
	var errs []error

	if c.Input.File == "" {
		errs = append(errs, errors.New("input.file is required"))
	}
	if _, err := time.LoadLocation(c.Input.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("input.timezone: %w", err))
	}
	if _, err := time.LoadLocation(c.Output.DisplayTimezone); err != nil {
		errs = append(errs, fmt.Errorf("output.display_timezone: %w", err))
	}
	if c.Pipeline.Workers < 1 {
		errs = append(errs, fmt.Errorf("pipeline.workers must be at least 1, got %d", c.Pipeline.Workers))
	}
	if c.Pipeline.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("pipeline.batch_size must be at least 1, got %d", c.Pipeline.BatchSize))
	}

	switch c.Output.Format {
	case FormatText, FormatJSON:
	case FormatKafka:
		if len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "" {
			errs = append(errs, errors.New("kafka output needs kafka.brokers and kafka.topic"))
		}
	case FormatNATS:
		if c.NATS.URL == "" || c.NATS.Subject == "" {
			errs = append(errs, errors.New("nats output needs nats.url and nats.subject"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown output.format %q (want %s)", c.Output.Format,
			strings.Join([]string{FormatText, FormatJSON, FormatKafka, FormatNATS}, ", ")))
	}

	return errors.Join(errs...)
}
