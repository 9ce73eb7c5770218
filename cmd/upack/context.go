package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/limenVTech/UDCS-Packer/internal/bagit"
	"github.com/limenVTech/UDCS-Packer/internal/config"
	"github.com/limenVTech/UDCS-Packer/internal/confirm"
	"github.com/limenVTech/UDCS-Packer/internal/identifier"
	"github.com/limenVTech/UDCS-Packer/internal/logging"
	"github.com/limenVTech/UDCS-Packer/internal/pipeline"
)

// lockName is the advisory batch lock kept in the batch root while a run is
// in flight.
const lockName = ".upack.lock"

type commandContext struct {
	configFlag *string
	yesFlag    *bool
	promptFlag *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string, yesFlag, promptFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		yesFlag:    yesFlag,
		promptFlag: promptFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, c.configErr = config.Load(path)
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	paths := []string{"stderr"}
	if cfg.Logging.LogDir != "" {
		paths = append(paths, filepath.Join(cfg.Logging.LogDir, "upack.log"))
	}
	return logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: paths,
	})
}

func (c *commandContext) confirmer() confirm.Confirmer {
	assumeDefaults := c.yesFlag != nil && *c.yesFlag
	return confirm.ForTerminal(assumeDefaults)
}

func (c *commandContext) newBatch(root string) (*pipeline.Batch, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.logger()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve batch root: %w", err)
	}
	return &pipeline.Batch{
		Root:      abs,
		Cfg:       cfg,
		Logger:    logger,
		Confirm:   c.confirmer(),
		Decisions: confirm.NewDecisions(),
		Generator: identifier.FromConfig(cfg),
		Packager:  bagit.New(),
	}, nil
}

// runStages acquires the batch lock, runs the given stage sequence, and
// prints the per-stage summary. mutate adjusts the batch before the run
// (ledger path, transfer dir, packager).
func (c *commandContext) runStages(cmd *cobra.Command, root string, stages []pipeline.Stage, mutate func(*pipeline.Batch)) error {
	b, err := c.newBatch(root)
	if err != nil {
		return err
	}
	if mutate != nil {
		mutate(b)
	}

	info, err := os.Stat(b.Root)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("batch root %q is not a directory", b.Root)
	}

	lock := flock.New(filepath.Join(b.Root, lockName))
	held, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire batch lock: %w", err)
	}
	if !held {
		return fmt.Errorf("batch %q is locked by another upack run", b.Root)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lock.Path())
	}()

	prompt := c.promptFlag != nil && *c.promptFlag
	runner := pipeline.NewRunner(stages, b.Logger, prompt)
	results, runErr := runner.Run(cmd.Context(), b)

	if len(results) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), renderSummary(results))
	}
	return runErr
}
