package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inamate/shapecut/internal/engine"
)

func newCutCmd() *cobra.Command {
	var (
		in, out  string
		from, to string
		atX      float64
	)

	c := &cobra.Command{
		Use:   "cut",
		Short: "Split every shape crossed by a line",
		Long: `Split the shapes of a scene along the infinite line through --from and
--to, or along the vertical line --x. Closed shapes become two polygons that
keep their paint; lines become two segments.

Examples:
  shapecut cut --in scene.json --from 0,0 --to 800,600
  shapecut cut --in scene.json --x 120 --out halves.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := readScene(in)
			if err != nil {
				return err
			}
			e := engine.New(engine.Options{})
			e.LoadSnapshot(snap)

			var n int
			switch {
			case from != "" && to != "":
				a, err := parsePoint(from)
				if err != nil {
					return err
				}
				b, err := parsePoint(to)
				if err != nil {
					return err
				}
				n = e.CutBySegment(a, b)
			case cmd.Flags().Changed("x"):
				n = e.CutAtX(atX)
			default:
				return errors.New("give --from and --to, or --x")
			}

			if out == "" {
				out = in
			}
			if err := writeScene(out, e.Snapshot()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cut %d shapes, scene now has %d\n", n, len(e.Shapes()))
			return nil
		},
	}
	c.Flags().StringVar(&in, "in", "", "scene JSON file")
	c.Flags().StringVarP(&out, "out", "o", "", "output scene (default overwrite --in)")
	c.Flags().StringVar(&from, "from", "", "first point on the cut line, x,y")
	c.Flags().StringVar(&to, "to", "", "second point on the cut line, x,y")
	c.Flags().Float64Var(&atX, "x", 0, "cut along the vertical line at this x")
	c.MarkFlagRequired("in")
	return c
}
