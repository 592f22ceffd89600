package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inamate/shapecut/internal/document"
)

func newSampleCmd() *cobra.Command {
	var out string

	c := &cobra.Command{
		Use:   "sample",
		Short: "Write the built-in sample scene",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := document.NewSampleSnapshot()
			if out == "" || out == "-" {
				data, err := snap.Encode()
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(append(data, '\n'))
				return err
			}
			if err := writeScene(out, snap); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d shapes to %s\n", len(snap.Shapes), out)
			return nil
		},
	}
	c.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return c
}
