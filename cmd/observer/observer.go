package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/LinkTsang/p0f-observer/internal/config"
	"github.com/LinkTsang/p0f-observer/internal/logging"
	"github.com/LinkTsang/p0f-observer/internal/output"
	"github.com/LinkTsang/p0f-observer/internal/parser"
	"github.com/LinkTsang/p0f-observer/internal/pipeline"
	"github.com/LinkTsang/p0f-observer/internal/source"
)

func parseAction(cCtx *cli.Context) error {
	cfg, err := loadConfig(cCtx)
	if err != nil {
		return err
	}

	sink, err := openSink(cCtx, cfg)
	if err != nil {
		return err
	}

	stats, runErr := run(cCtx, cfg, sink)
	if err := sink.Close(); err != nil && runErr == nil {
		runErr = err
	}
	log.Info().
		Int("lines", stats.Lines).
		Int("parsed", stats.Parsed).
		Int("failed", stats.Failed).
		Msg("parse finished")
	return runErr
}

func statsAction(cCtx *cli.Context) error {
	cfg, err := loadConfig(cCtx)
	if err != nil {
		return err
	}

	stats, err := run(cCtx, cfg, nil)
	if err != nil {
		return err
	}
	return printSummary(cCtx.App.Writer, stats, cfg.Output.Color)
}

func run(cCtx *cli.Context, cfg *config.Config, sink output.RecordConsumer) (pipeline.Stats, error) {
	loc, err := time.LoadLocation(cfg.Input.Timezone)
	if err != nil {
		return pipeline.Stats{}, configError(err)
	}

	in, err := source.Open(cfg.Input.File, cfg.Input.MaxLineBytes)
	if err != nil {
		return pipeline.Stats{}, err
	}
	defer in.Close()

	log.Debug().
		Str("file", cfg.Input.File).
		Int("workers", cfg.Pipeline.Workers).
		Int("batch_size", cfg.Pipeline.BatchSize).
		Bool("strict", cfg.Pipeline.Strict).
		Msg("reading p0f log")

	return pipeline.Run(cCtx.Context, in, sink, pipeline.Options{
		Workers:   cfg.Pipeline.Workers,
		BatchSize: cfg.Pipeline.BatchSize,
		Strict:    cfg.Pipeline.Strict,
		Modules:   cfg.Pipeline.Modules,
		Parser:    parser.New(parser.WithLocation(loc)),
		Logger:    logging.NewLogger("pipeline", zerolog.GlobalLevel()),
	})
}

func openSink(cCtx *cli.Context, cfg *config.Config) (output.RecordConsumer, error) {
	var broker output.RecordConsumer
	var err error
	switch cfg.Output.Format {
	case config.FormatJSON:
		return output.NewJSONOutput(cCtx.App.Writer), nil
	case config.FormatKafka:
		sarama.Logger = logging.StdLogger(logging.NewLogger("sarama", zerolog.DebugLevel))
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("publishing to kafka")
		broker, err = output.NewKafkaOutput(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	case config.FormatNATS:
		log.Info().Str("url", cfg.NATS.URL).Str("subject", cfg.NATS.Subject).Msg("publishing to nats")
		broker, err = output.NewNATSOutput(cfg.NATS.URL, cfg.NATS.Subject)
	default:
		return textSink(cCtx, cfg)
	}
	if err != nil || !cfg.Output.Echo {
		return broker, err
	}

	text, err := textSink(cCtx, cfg)
	if err != nil {
		broker.Close()
		return nil, err
	}
	return output.Multi{broker, text}, nil
}

func textSink(cCtx *cli.Context, cfg *config.Config) (output.RecordConsumer, error) {
	loc, err := time.LoadLocation(cfg.Output.DisplayTimezone)
	if err != nil {
		return nil, configError(err)
	}
	return output.NewTextOutput(cCtx.App.Writer, loc, cfg.Output.Color), nil
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "p0f-observer",
		Usage: "parse p0f logs into structured records",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config file",
				EnvVars: []string{"P0F_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (trace, debug, info, warn, error); overrides log_level",
				EnvVars: []string{"P0F_LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "parse",
				Usage:  "parse a p0f log and write records",
				Flags:  append(inputFlags(), outputFlags()...),
				Action: parseAction,
			},
			{
				Name:   "stats",
				Usage:  "parse a p0f log and print per-module counts",
				Flags:  append(inputFlags(), &cli.BoolFlag{Name: "color", Usage: "colorize the summary"}),
				Action: statsAction,
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newApp().RunContext(ctx, os.Args)
	stop()
	if err != nil {
		log.Error().Err(err).Msg("p0f-observer failed")
		os.Exit(exitCode(err))
	}
}

var errConfig = errors.New("invalid configuration")

func configError(err error) error {
	return errors.Join(errConfig, err)
}

// exitCode maps run errors to process exit codes.
func exitCode(err error) int {
	var readErr *source.ReadError
	var lineErr *pipeline.LineError
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errConfig):
		return 2
	case errors.As(err, &lineErr):
		return 3
	case errors.As(err, &readErr):
		return 4
	default:
		return 1
	}
}
