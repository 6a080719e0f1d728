package main

import (
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/LinkTsang/p0f-observer/internal/config"
	"github.com/LinkTsang/p0f-observer/internal/logging"
)

func inputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Value:   "-",
			Usage:   "p0f log to parse, - for stdin",
			EnvVars: []string{"P0F_FILE"},
		},
		&cli.StringFlag{
			Name:    "timezone",
			Value:   "UTC",
			Usage:   "timezone p0f timestamps were written in",
			EnvVars: []string{"P0F_TIMEZONE"},
		},
		&cli.IntFlag{
			Name:  "workers",
			Value: 4,
			Usage: "lines parsed concurrently",
		},
		&cli.IntFlag{
			Name:  "batch-size",
			Value: 256,
			Usage: "lines read per batch",
		},
		&cli.BoolFlag{
			Name:  "strict",
			Usage: "stop at the first line that fails to parse",
		},
		&cli.StringSliceFlag{
			Name:    "module",
			Aliases: []string{"m"},
			Usage:   "only keep these modules (repeatable); \"unparsed\" selects unknown modules",
		},
	}
}

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Value:   config.FormatText,
			Usage:   "output format: text, json, kafka or nats",
			EnvVars: []string{"P0F_OUTPUT"},
		},
		&cli.StringFlag{
			Name:  "display-timezone",
			Value: "Local",
			Usage: "timezone timestamps are shown in by the text output",
		},
		&cli.BoolFlag{
			Name:  "color",
			Usage: "colorize text output",
		},
		&cli.BoolFlag{
			Name:  "echo",
			Usage: "also print records as text when publishing to kafka or nats",
		},
		&cli.StringFlag{
			Name:    "kafka-brokers",
			Value:   "127.0.0.1:9092",
			Usage:   "kafka brokers, separated by ';'",
			EnvVars: []string{"P0F_KAFKA_BROKERS"},
		},
		&cli.StringFlag{
			Name:    "kafka-topic",
			Value:   "p0f",
			Usage:   "kafka topic",
			EnvVars: []string{"P0F_KAFKA_TOPIC"},
		},
		&cli.StringFlag{
			Name:    "nats-url",
			Value:   "nats://127.0.0.1:4222",
			Usage:   "nats server url",
			EnvVars: []string{"P0F_NATS_URL"},
		},
		&cli.StringFlag{
			Name:    "nats-subject",
			Value:   "p0f",
			Usage:   "nats subject prefix; records go to <prefix>.<module>",
			EnvVars: []string{"P0F_NATS_SUBJECT"},
		},
	}
}

// loadConfig builds the run configuration: defaults, then the config file,
// then any flag set on the command line or through its environment
// variable. Logging is configured from the result.
func loadConfig(cCtx *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := cCtx.String("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, configError(err)
		}
		cfg = loaded
	}

	set := func(name string, apply func()) {
		if cCtx.IsSet(name) {
			apply()
		}
	}
	set("log-level", func() { cfg.LogLevel = cCtx.String("log-level") })
	set("file", func() { cfg.Input.File = cCtx.String("file") })
	set("timezone", func() { cfg.Input.Timezone = cCtx.String("timezone") })
	set("workers", func() { cfg.Pipeline.Workers = cCtx.Int("workers") })
	set("batch-size", func() { cfg.Pipeline.BatchSize = cCtx.Int("batch-size") })
	set("strict", func() { cfg.Pipeline.Strict = cCtx.Bool("strict") })
	set("module", func() { cfg.Pipeline.Modules = cCtx.StringSlice("module") })
	set("output", func() { cfg.Output.Format = cCtx.String("output") })
	set("display-timezone", func() { cfg.Output.DisplayTimezone = cCtx.String("display-timezone") })
	set("color", func() { cfg.Output.Color = cCtx.Bool("color") })
	set("echo", func() { cfg.Output.Echo = cCtx.Bool("echo") })
	set("kafka-brokers", func() { cfg.Kafka.Brokers = strings.Split(cCtx.String("kafka-brokers"), ";") })
	set("kafka-topic", func() { cfg.Kafka.Topic = cCtx.String("kafka-topic") })
	set("nats-url", func() { cfg.NATS.URL = cCtx.String("nats-url") })
	set("nats-subject", func() { cfg.NATS.Subject = cCtx.String("nats-subject") })

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, configError(err)
	}
	logging.ConfigureGlobal(level)

	if err := cfg.Validate(); err != nil {
		return nil, configError(err)
	}
	return cfg, nil
}
