package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"deltakey/internal/api"
	"deltakey/internal/config"
	"deltakey/internal/engine"
	"deltakey/internal/session"
	"deltakey/internal/store"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// withStore opens the dataset store for the duration of fn.
func (c *commandContext) withStore(fn func(*config.Config, *store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(cfg, st)
}

// withService wires the stored dataset and the session directory into a key
// service for the duration of fn.
func (c *commandContext) withService(ctx context.Context, fn func(*config.Config, *api.KeyService) error) error {
	return c.withStore(func(cfg *config.Config, st *store.Store) error {
		idx, err := st.LoadIndex(ctx)
		if err != nil {
			if errors.Is(err, store.ErrNoDataset) {
				return fmt.Errorf("no dataset loaded; run `deltakey load <dir>` first")
			}
			return err
		}

		sessStore, err := session.NewStore(cfg.Paths.SessionDir)
		if err != nil {
			return err
		}

		svc := api.NewKeyService(engine.New(idx, nil), session.NewManager(sessStore), nil)
		return fn(cfg, svc)
	})
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
