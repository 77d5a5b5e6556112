package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"

	"github.com/promcw/cloudwatch-importer/internal/dump"
	"github.com/promcw/cloudwatch-importer/internal/fetcher"
	"github.com/promcw/cloudwatch-importer/internal/model"
	"github.com/promcw/cloudwatch-importer/internal/restclient"
	"github.com/promcw/cloudwatch-importer/internal/translator"
	"github.com/promcw/cloudwatch-importer/internal/uploader"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "c", "", "Path to the configuration file (required)")
	flag.StringVar(&configFile, "config", "", "Path to the configuration file (required)")
	var dumpStage string
	flag.StringVar(&dumpStage, "d", "", "Dump fetched (source) or translated (destination) metrics to a file and exit")
	flag.StringVar(&dumpStage, "dump", "", "Dump fetched (source) or translated (destination) metrics to a file and exit")
	var dumpFormat string
	flag.StringVar(&dumpFormat, "f", "json", "Format of the metrics dump file (json or yaml)")
	flag.StringVar(&dumpFormat, "format", "json", "Format of the metrics dump file (json or yaml)")
	var verbose bool
	flag.BoolVar(&verbose, "v", false, "Increase output verbosity")
	flag.BoolVar(&verbose, "verbose", false, "Increase output verbosity")
	var logFile string
	flag.StringVar(&logFile, "log-file", "", "Log file to store logs")
	flag.Parse()

	logger, err := newLogger(verbose, logFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	if configFile == "" {
		logger.Error("configuration file is required, use -c/--config")
		os.Exit(1)
	}

	if err := run(context.Background(), configFile, dumpStage, dumpFormat); err != nil {
		logger.Error("import failed", "error", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool, logFile string) (*slog.Logger, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	var w io.Writer = os.Stderr
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = io.MultiWriter(os.Stderr, f)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

func run(ctx context.Context, configFile, dumpStage, dumpFormat string) error {
	slog.Info("reading configuration", "file", configFile)
	cfg, err := model.LoadConfig(configFile)
	if err != nil {
		return err
	}

	client := restclient.New(cfg.URL)
	results, err := fetcher.Fetch(ctx, client, cfg.Metrics)
	if err != nil {
		return err
	}

	records := translator.Translate(results)
	slog.Info("metrics ready to be pushed", "records", len(records))

	if dumpStage != "" {
		return dumpAndExit(dumpStage, dumpFormat, results, records)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return err
	}
	cwClient := cloudwatch.NewFromConfig(awsCfg)

	slog.Info("start pushing metrics", "namespace", cfg.Namespace)
	if err := uploader.New(cwClient, cfg.Namespace).Upload(ctx, records); err != nil {
		return err
	}
	slog.Info("metrics pushed successfully", "records", len(records))
	return nil
}

func dumpAndExit(dumpStage, dumpFormat string, results []model.QueryResult, records []model.Record) error {
	format, err := dump.ParseFormat(dumpFormat)
	if err != nil {
		return err
	}
	stage, err := dump.ParseStage(dumpStage)
	if err != nil {
		return err
	}

	var data interface{}
	switch stage {
	case dump.StageSource:
		data = results
	case dump.StageDestination:
		data = records
	}

	fileName, err := dump.Write(stage, format, data)
	if err != nil {
		return err
	}
	slog.Info("dump file created", "file", fileName)
	return nil
}
