package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inamate/shapecut/internal/document"
	"github.com/inamate/shapecut/internal/geom"
	"github.com/inamate/shapecut/internal/render"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "shapecut",
		Short: "Offline tools for shapecut scenes",
		Long: `Work with saved shapecut scenes without a browser: render them to SVG
or PNG, list their shapes, cut them along a line, or write a sample scene.

Examples:
  shapecut sample --out scene.json                        # Write the demo scene
  shapecut export --in scene.json --out scene.png         # Rasterize a scene
  shapecut cut --in scene.json --from 100,0 --to 100,600  # Split shapes at x=100
  shapecut inspect --in scene.json                        # List shapes`,
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)
			render.SetLogger(logger)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(newExportCmd(), newInspectCmd(), newCutCmd(), newSampleCmd())
	return root
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func readScene(path string) (*document.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	snap, err := document.ParseSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("read scene %s: %w", path, err)
	}
	return snap, nil
}

func writeScene(path string, snap *document.Snapshot) error {
	data, err := snap.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write scene: %w", err)
	}
	return nil
}

// parsePoint reads "x,y".
func parsePoint(s string) (geom.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return geom.Point{}, fmt.Errorf("point %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return geom.Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return geom.Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	return geom.Pt(x, y), nil
}
