package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zero-day-ai/xplor"
	"github.com/zero-day-ai/xplor/graph"
)

type searchResult struct {
	Collection   string     `json:"collection"`
	Query        string     `json:"query"`
	NodesAdded   int        `json:"nodes_added"`
	NodesMatched int        `json:"nodes_matched"`
	EdgesAdded   int        `json:"edges_added"`
	EdgesMatched int        `json:"edges_matched"`
	Skipped      []string   `json:"skipped,omitempty"`
	Stats        graph.Meta `json:"stats"`
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <collection> <query>...",
		Short: "Resolve a query and merge its results into a collection",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := a.explorer()
			if err != nil {
				return err
			}
			defer xplor.CloseWithLog(x, a.logger, "explorer")

			collection, query := args[0], strings.Join(args[1:], " ")
			g, report, err := x.Search(cmd.Context(), collection, query)
			if err != nil {
				return err
			}

			res := searchResult{
				Collection:   collection,
				Query:        query,
				NodesAdded:   report.NodesAdded,
				NodesMatched: report.NodesMatched,
				EdgesAdded:   report.EdgesAdded,
				EdgesMatched: report.EdgesMatched,
				Stats:        g.Meta,
			}
			for _, s := range report.Skipped {
				res.Skipped = append(res.Skipped, s.String())
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
}

func newGraphCmd(a *app) *cobra.Command {
	var (
		req       xplor.GraphRequest
		weighting []string
	)

	cmd := &cobra.Command{
		Use:   "graph <collection>",
		Short: "Print a ranked view of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := parseWeighting(weighting)
			if err != nil {
				return err
			}
			req.Weighting = w

			x, err := a.explorer()
			if err != nil {
				return err
			}
			defer xplor.CloseWithLog(x, a.logger, "explorer")

			v, err := x.Graph(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), v)
		},
	}

	f := cmd.Flags()
	f.StringSliceVarP(&req.Nodes, "node", "n", nil, "UUIDs of the nodes to centre the view on")
	f.BoolVar(&req.Reset, "reset", false, "ignore --node and centre on the primary nodes")
	f.BoolVar(&req.AllPrimary, "all-primary", false, "include every primary node")
	f.IntVar(&req.Cut, "cut", 0, "number of ranked nodes kept (default from config)")
	f.IntVar(&req.Length, "length", 0, "number of propagation rounds (default from config)")
	f.StringSliceVarP(&weighting, "weighting", "w", nil, "edge weighting rules")
	f.StringVar(&req.Filter, "filter", "", "CEL expression ranked nodes must satisfy")
	return cmd
}

func newExpandCmd(a *app) *cobra.Command {
	var (
		req       xplor.ExpandRequest
		weighting []string
	)

	cmd := &cobra.Command{
		Use:   "expand <collection> <node>...",
		Short: "Expand a collection around the first known node",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := parseWeighting(weighting)
			if err != nil {
				return err
			}
			req.Weighting = w
			req.Nodes = args[1:]

			x, err := a.explorer()
			if err != nil {
				return err
			}
			defer xplor.CloseWithLog(x, a.logger, "explorer")

			scores, err := x.Expand(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), scores)
		},
	}

	f := cmd.Flags()
	f.IntVar(&req.Cut, "cut", 0, "number of scores returned (default from config)")
	f.IntVar(&req.Length, "length", 0, "number of propagation rounds (default from config)")
	f.StringSliceVarP(&weighting, "weighting", "w", nil, "edge weighting rules")
	return cmd
}

func newLabelsCmd(a *app) *cobra.Command {
	var (
		req       xplor.LabelsRequest
		clusters  []string
		weighting []string
	)

	cmd := &cobra.Command{
		Use:   "labels <collection>",
		Short: "Name clusters of nodes after their closest neighbours",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(clusters) == 0 {
				return errors.New("at least one --cluster is required")
			}
			w, err := parseWeighting(weighting)
			if err != nil {
				return err
			}
			req.Weighting = w
			for _, c := range clusters {
				req.Clusters = append(req.Clusters, splitList(c))
			}

			x, err := a.explorer()
			if err != nil {
				return err
			}
			defer xplor.CloseWithLog(x, a.logger, "explorer")

			labels, err := x.Labels(cmd.Context(), args[0], req)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), labels)
		},
	}

	f := cmd.Flags()
	f.StringArrayVar(&clusters, "cluster", nil, "comma separated node UUIDs of one cluster (repeatable)")
	f.IntVar(&req.Count, "count", 0, "labels per cluster (default from config)")
	f.StringSliceVarP(&weighting, "weighting", "w", nil, "edge weighting rules")
	f.StringVar(&req.Filter, "filter", "", "CEL expression candidate labels must satisfy")
	return cmd
}

func newResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <collection>",
		Short: "Replace a collection with an empty graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := a.explorer()
			if err != nil {
				return err
			}
			defer xplor.CloseWithLog(x, a.logger, "explorer")

			v, err := x.Reset(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), v)
		},
	}
}

type collectionStats struct {
	Collection string `json:"collection"`
	Nodes      int    `json:"nodes"`
	Edges      int    `json:"edges"`
	Queries    int    `json:"queries"`
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [collection]",
		Short: "Print collection statistics, or a summary of every collection",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := a.explorer()
			if err != nil {
				return err
			}
			defer xplor.CloseWithLog(x, a.logger, "explorer")

			ctx := cmd.Context()
			if len(args) == 1 {
				g, err := x.Collection(ctx, args[0])
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), g.Meta)
			}

			names, err := x.Collections(ctx)
			if err != nil {
				return err
			}
			out := make([]collectionStats, 0, len(names))
			for _, name := range names {
				g, err := x.Collection(ctx, name)
				if err != nil {
					return err
				}
				out = append(out, collectionStats{
					Collection: name,
					Nodes:      g.NodeCount(),
					Edges:      g.EdgeCount(),
					Queries:    len(g.Queries),
				})
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
}

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the store and the resolver directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := a.explorer()
			if err != nil {
				return err
			}
			defer xplor.CloseWithLog(x, a.logger, "explorer")

			status := x.Health(cmd.Context())
			if err := writeJSON(cmd.OutOrStdout(), status); err != nil {
				return err
			}
			if status.IsUnhealthy() {
				return fmt.Errorf("unhealthy: %s", status.Message)
			}
			return nil
		},
	}
}

// splitList splits a comma separated list, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
