package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/NikBel3476/evacuation-gui-iced/internal/config"
	"github.com/NikBel3476/evacuation-gui-iced/internal/logging"
	"github.com/NikBel3476/evacuation-gui-iced/internal/server"
	"github.com/NikBel3476/evacuation-gui-iced/pkg/bim"
	"github.com/NikBel3476/evacuation-gui-iced/pkg/scene2d"
	"github.com/NikBel3476/evacuation-gui-iced/pkg/timeline"
	"github.com/NikBel3476/evacuation-gui-iced/pkg/validation"
)

var errValidationFailed = errors.New("validation failed")

func loadConfig(opts *globalOptions) (*config.Config, error) {
	if opts.envFile != "" {
		if err := config.LoadDotEnv(opts.envFile); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// loadAndValidate loads a building and, when seriesPath is set, its
// simulation result, and validates both.
func loadAndValidate(bimPath, seriesPath string) (*bim.Building, *timeline.TimeSeries, *validation.Report, error) {
	b, err := bim.Load(bimPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading building: %w", err)
	}
	report := bim.Validate(b)
	if seriesPath == "" {
		return b, nil, report, nil
	}

	s, err := timeline.Load(seriesPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading time series: %w", err)
	}
	report.Merge(timeline.Validate(s))
	report.Merge(timeline.ValidateAgainst(s, b))
	return b, s, report, nil
}

func runInspect(w io.Writer, bimPath string) error {
	b, err := bim.Load(bimPath)
	if err != nil {
		return fmt.Errorf("loading building: %w", err)
	}
	printBuilding(w, b)
	return nil
}

func runValidate(w io.Writer, bimPath, seriesPath string) error {
	_, _, report, err := loadAndValidate(bimPath, seriesPath)
	if err != nil {
		return err
	}
	printValidationReport(w, report)
	if !report.Valid {
		return errValidationFailed
	}
	return nil
}

func runFrame(w io.Writer, cfg *config.Config, bimPath, seriesPath string, level int, at float64) error {
	b, s, report, err := loadAndValidate(bimPath, seriesPath)
	if err != nil {
		return err
	}
	if !report.Valid {
		printValidationReport(w, report)
		return fmt.Errorf("input has validation errors: %w", errValidationFailed)
	}

	frame, err := scene2d.Assemble(b, s, scene2d.FrameRequest{
		Level:    level,
		Time:     at,
		Viewport: cfg.ViewportSize(),
		Adjust:   cfg.AdjustOptions(),
	}, cfg.NewGenerator(nil))
	if err != nil {
		return fmt.Errorf("assembling frame: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(frame)
}

func runStats(w io.Writer, seriesPath string) error {
	s, err := timeline.Load(seriesPath)
	if err != nil {
		return fmt.Errorf("loading time series: %w", err)
	}
	if report := timeline.Validate(s); !report.Valid {
		printValidationReport(w, report)
		return errValidationFailed
	}

	var (
		tr   timeline.Tracker
		rows []statsRow
	)
	for _, step := range s.Items {
		tr.Observe(step.Rooms, true)
		rows = append(rows, statsRow{Summary: s.Summarize(step.Time), Exited: tr.Exited()})
	}
	printStats(w, rows)
	return nil
}

func runServe(ctx context.Context, cfg *config.Config, bimPath, seriesPath string) error {
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	b, s, report, err := loadAndValidate(bimPath, seriesPath)
	if err != nil {
		return err
	}
	for _, e := range report.Errors {
		logger.Error("validation error", zap.String("path", e.Path), zap.String("message", e.Message))
	}
	for _, w := range report.Warnings {
		logger.Warn("validation warning", zap.String("path", w.Path), zap.String("message", w.Message))
	}
	if !report.Valid {
		return errValidationFailed
	}
	logger.Info("loaded building",
		zap.String("building", b.NameBuilding),
		zap.Int("levels", len(b.Level)),
		zap.Int("elements", b.ElementCount()),
		zap.Int("steps", len(s.Items)),
	)

	srv := server.New(cfg, b, s, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})
	return g.Wait()
}
