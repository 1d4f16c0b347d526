package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"growthboard/internal/config"
	"growthboard/internal/exporter"
	"growthboard/internal/infrastructure"
	"growthboard/internal/series"
	"growthboard/internal/services"
)

// exportwide renders one selection as the wide Year x Variable table without
// running the server, for scripted pulls of the same data the dashboard
// exports.
func main() {
	in := flag.String("in", "", "dataset file (.csv or .xlsx)")
	country := flag.String("country", "", "country to export")
	variables := flag.String("variables", "", "comma-separated variable names")
	from := flag.Int("from", 0, "first year (defaults to the dataset's first year column)")
	to := flag.Int("to", 0, "last year (defaults to the dataset's last year column)")
	transform := flag.String("transform", "raw", "raw | log | growth")
	window := flag.Int("window", 0, "trailing moving-average window; 0 disables smoothing")
	out := flag.String("out", "", "output file path (defaults to stdout, csv only)")
	format := flag.String("format", "csv", "csv | xlsx")
	flag.Parse()

	if *in == "" || *country == "" || *variables == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = &config.Config{
			Logging: config.LoggingConfig{Level: "warn", Output: "stdout"},
		}
	}
	// Keep table output clean when writing to stdout.
	if *out == "" {
		cfg.Logging.Level = "error"
		cfg.Logging.Output = "stdout"
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}

	req := services.SeriesRequest{
		Country:  *country,
		FromYear: *from,
		ToYear:   *to,
		Window:   *window,
	}
	for _, v := range strings.Split(*variables, ",") {
		if v = strings.TrimSpace(v); v != "" {
			req.Variables = append(req.Variables, v)
		}
	}
	if req.Transform, err = series.ParseTransformation(*transform); err != nil {
		logger.Error("Invalid transform", slog.String("transform", *transform))
		os.Exit(2)
	}

	// Without a configured ordering the selection order is the export order.
	order := cfg.Dataset.VariableOrder
	if len(order) == 0 {
		order = req.Variables
	}

	ctx := context.Background()
	datasets := services.NewDatasetService(logger, nil)
	if _, err := datasets.LoadFromFile(ctx, *in); err != nil {
		logger.Error("Failed to load dataset",
			slog.String("path", *in),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	svc := services.NewSeriesService(datasets, order, logger)
	table, err := svc.ExportWide(ctx, req)
	if err != nil {
		logger.Error("Export failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var w *os.File = os.Stdout
	if *out != "" {
		w, err = os.Create(*out)
		if err != nil {
			logger.Error("Cannot create output file",
				slog.String("path", *out),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	switch *format {
	case "csv":
		err = exporter.WriteCSV(w, table, exporter.CSVOptions{BOMPrefix: *out != ""})
	case "xlsx":
		if *out == "" {
			logger.Error("xlsx output requires -out")
			os.Exit(2)
		}
		err = exporter.WriteExcel(w, table)
	default:
		logger.Error("Invalid format", slog.String("format", *format))
		os.Exit(2)
	}
	if err != nil {
		if *out != "" {
			w.Close()
		}
		logger.Error("Failed to write export", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *out != "" {
		// Close before reporting success; a failed flush means a truncated file.
		if err := w.Close(); err != nil {
			logger.Error("Failed to finalize output file",
				slog.String("path", *out),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		fmt.Printf("Exported %d years x %d variables for %s to %s\n",
			len(table.Years), len(table.Variables), table.Country, *out)
	}
}
