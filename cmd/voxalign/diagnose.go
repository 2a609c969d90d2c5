package main

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/voxalign/engine"
)

func newDiagnoseCmd(g *globals) *cobra.Command {
	f := &sessionFlags{}
	cmd := &cobra.Command{
		Use:   "diagnose DIR",
		Short: "Report which channels a payload directory holds, without attributing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.settings()
			if err != nil {
				return err
			}
			in, err := f.input(args[0])
			if err != nil {
				return err
			}
			eng, err := engine.New(s, engine.WithLogger(newLogger(s)))
			if err != nil {
				return err
			}
			rep, err := eng.Diagnose(cmd.Context(), in)
			if err != nil {
				return err
			}
			return f.write(cmd, func(format string) ([]byte, error) { return renderAnalysis(format, rep) })
		},
	}
	f.register(cmd)
	return cmd
}
