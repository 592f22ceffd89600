package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/inamate/shapecut/internal/typeid"
)

func newInspectCmd() *cobra.Command {
	var in string

	c := &cobra.Command{
		Use:   "inspect",
		Short: "List the shapes in a scene",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := readScene(in)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTYPE\tBOUNDS\tFILL\tANNOTATIONS")
			legacy := 0
			for _, s := range snap.Shapes {
				if typeid.Prefix(s.ID) == "" {
					legacy++
				}
				b := s.Bounds()
				fmt.Fprintf(tw, "%s\t%s\t%g,%g %gx%g\t%s\t%d\n",
					s.ID, s.Type, b.X, b.Y, b.Width, b.Height, s.FillType, len(s.Annotations))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d shapes, %d global annotations", len(snap.Shapes), len(snap.GlobalAnnotations))
			if legacy > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), ", %d legacy ids", legacy)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
	c.Flags().StringVar(&in, "in", "", "scene JSON file")
	c.MarkFlagRequired("in")
	return c
}
