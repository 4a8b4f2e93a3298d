package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/zero-day-ai/xplor"
	"github.com/zero-day-ai/xplor/config"
	"github.com/zero-day-ai/xplor/extract"
	"github.com/zero-day-ai/xplor/prox"
	"github.com/zero-day-ai/xplor/resolver"
	"github.com/zero-day-ai/xplor/store"
)

// app carries the state shared by every command of one invocation.
type app struct {
	configPath string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "xplor",
		Short:        "Explore knowledge graphs built from search results",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file, or directory holding xplor.yaml")

	root.AddCommand(
		newSearchCmd(a),
		newGraphCmd(a),
		newExpandCmd(a),
		newLabelsCmd(a),
		newResetCmd(a),
		newStatsCmd(a),
		newHealthCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg := config.Default()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	a.cfg = cfg
	a.logger = cfg.Logging.NewLogger(cmd.ErrOrStderr())
	return nil
}

// explorer opens the configured store and resolver. The caller closes the
// returned Explorer.
func (a *app) explorer() (*xplor.Explorer, error) {
	settings, err := a.settings()
	if err != nil {
		return nil, err
	}

	s, err := store.Open(a.cfg.Store, a.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	opts := []xplor.Option{
		xplor.WithLogger(a.logger),
		xplor.WithSettings(settings),
	}
	if dir := a.cfg.Resolver.Dir; dir != "" {
		r, err := resolver.NewFiles(dir)
		if err != nil {
			xplor.CloseWithLog(s, a.logger, "store")
			return nil, err
		}
		opts = append(opts, xplor.WithResolver(r))
	}

	x, err := xplor.New(s, opts...)
	if err != nil {
		xplor.CloseWithLog(s, a.logger, "store")
		return nil, err
	}
	return x, nil
}

func (a *app) settings() (xplor.Settings, error) {
	c := a.cfg
	s := xplor.Settings{
		Graph: extract.Options{
			Cut:       c.Prox.GetCut(),
			Length:    c.Prox.GetLength(),
			Weighting: c.Prox.GetWeighting(),
		},
		Expand: extract.Options{
			Cut:       c.Expand.GetCut(),
			Length:    c.Expand.GetLength(),
			Weighting: c.Expand.GetWeighting(),
		},
		Labels: extract.LabelOptions{
			Count:     c.Labels.GetCount(),
			Cut:       c.Labels.GetCut(),
			Length:    c.Labels.GetLength(),
			Weighting: c.Labels.GetWeighting(),
		},
	}
	if c.Labels.Filter != "" {
		f, err := extract.NewFilter(c.Labels.Filter)
		if err != nil {
			return s, fmt.Errorf("labels.filter: %w", err)
		}
		s.Labels.Filter = f
	}
	return s, nil
}

// parseWeighting returns nil for no names so the configured default applies.
func parseWeighting(names []string) (prox.Weighting, error) {
	if len(names) == 0 {
		return nil, nil
	}
	return prox.ParseWeighting(names)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
