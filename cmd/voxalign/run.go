package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kbukum/voxalign/engine"
)

func newRunCmd(g *globals) *cobra.Command {
	f := &sessionFlags{}
	var title string
	cmd := &cobra.Command{
		Use:   "run DIR",
		Short: "Attribute the session whose provider payloads are in DIR",
		Long: `Reads every "<AUDIO FILE>.json" payload in DIR, classifies the channels by
file name (MIX/MASTER, MIC<n>, PHONE, SOUND_PAD) and writes the attributed
transcript. Exits non-zero when no master transcript could be attributed.`,
		Args: cobra.ExactArgs(1),
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
			res, err := eng.Run(cmd.Context(), in)
			if err != nil {
				return err
			}
			if title == "" {
				title = filepath.Base(filepath.Clean(args[0]))
			}
			if err := f.write(cmd, func(format string) ([]byte, error) { return renderResult(format, title, res) }); err != nil {
				return err
			}
			if !res.Success {
				return fmt.Errorf("run %s: %s", res.RunID, res.ErrorMessage)
			}
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&title, "title", "", "markdown title (default: directory name)")
	return cmd
}
