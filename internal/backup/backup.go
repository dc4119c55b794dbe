// Package backup writes periodic snapshots of the committed document.
package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dhima/catalog-service/internal/logging"
	"github.com/dhima/catalog-service/internal/storage"
	"github.com/dhima/catalog-service/pkg/clock"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	filePrefix = "db-"
	fileSuffix = ".json"
	stampFmt   = "20060102T150405Z"
)

// ErrInvalidSchedule is returned for a cron spec that cannot be parsed.
var ErrInvalidSchedule = errors.New("invalid backup schedule")

// Exporter writes the last committed document.
type Exporter interface {
	Export(w io.Writer) error
}

// Scheduler snapshots the store on a cron schedule and keeps the newest
// files. It only reads committed state.
type Scheduler struct {
	exporter Exporter
	dir      string
	keep     int
	clock    clock.Clock
	logger   logging.Logger
	cron     *cron.Cron
}

// NewScheduler creates a scheduler writing to dir. keep <= 0 disables pruning.
func NewScheduler(exporter Exporter, dir string, keep int, clk clock.Clock, logger logging.Logger) *Scheduler {
	logger = logger.With(zap.String("component", "backup"))
	return &Scheduler{
		exporter: exporter,
		dir:      dir,
		keep:     keep,
		clock:    clk,
		logger:   logger,
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger})),
			cron.WithLogger(cronLogger{logger}),
		),
	}
}

var parser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ValidateSchedule reports whether spec is a usable cron expression.
func ValidateSchedule(spec string) error {
	if _, err := parser.Parse(strings.TrimSpace(spec)); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidSchedule, spec, err)
	}
	return nil
}

// Start registers the backup job on spec and starts the cron runner.
func (s *Scheduler) Start(spec string) error {
	if err := ValidateSchedule(spec); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(strings.TrimSpace(spec), func() {
		if _, err := s.RunOnce(); err != nil {
			s.logger.Error("backup failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidSchedule, spec, err)
	}
	s.cron.Start()
	s.logger.Info("backup schedule started",
		zap.String("schedule", spec),
		zap.String("dir", s.dir),
		zap.Int("keep", s.keep),
	)
	return nil
}

// Stop halts the runner and waits for a running backup to finish or ctx to
// expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("backup still running at shutdown")
	}
}

// RunOnce writes one snapshot and prunes old ones. It returns the path written.
func (s *Scheduler) RunOnce() (string, error) {
	var buf bytes.Buffer
	if err := s.exporter.Export(&buf); err != nil {
		return "", fmt.Errorf("export document: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	path := filepath.Join(s.dir, filePrefix+s.clock.Now().UTC().Format(stampFmt)+fileSuffix)
	if err := storage.WriteFileAtomic(path, buf.Bytes(), 0o600); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	s.logger.Info("backup written", zap.String("path", path), zap.Int("bytes", buf.Len()))

	if err := s.prune(); err != nil {
		return path, fmt.Errorf("prune backups: %w", err)
	}
	return path, nil
}

func (s *Scheduler) prune() error {
	if s.keep <= 0 {
		return nil
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), filePrefix) && strings.HasSuffix(e.Name(), fileSuffix) {
			names = append(names, e.Name())
		}
	}
	if len(names) <= s.keep {
		return nil
	}

	// Timestamps sort lexically.
	sort.Strings(names)
	for _, name := range names[:len(names)-s.keep] {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		s.logger.Debug("backup pruned", zap.String("file", name))
	}
	return nil
}

// cronLogger adapts Logger to cron.Logger.
type cronLogger struct {
	logger logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, fields(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(fields(keysAndValues), zap.Error(err))...)
}

func fields(keysAndValues []interface{}) []zap.Field {
	out := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		out = append(out, zap.Any(key, keysAndValues[i+1]))
	}
	return out
}
