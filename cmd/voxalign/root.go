package main

import (
	"github.com/spf13/cobra"

	"github.com/kbukum/voxalign/config"
	"github.com/kbukum/voxalign/logger"
)

// globals are the flags shared by every subcommand.
type globals struct {
	configFile string
	envFile    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "voxalign",
		Short:         "Attribute multi-channel meeting transcripts to speakers",
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVarP(&g.configFile, "config", "c", "", "settings file (default: search ./voxalign.yml, ./config, user config dir)")
	root.PersistentFlags().StringVar(&g.envFile, "env-file", "", ".env file to load before reading VOXALIGN_* variables")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")

	root.AddCommand(
		newDiagnoseCmd(g),
		newRunCmd(g),
		newServeCmd(g),
		newVersionCmd(),
	)
	return root
}

// settings loads and validates the settings named by the global flags.
func (g *globals) settings() (*config.Settings, error) {
	var opts []config.LoaderOption
	if g.configFile != "" {
		opts = append(opts, config.WithConfigFile(g.configFile))
	}
	if g.envFile != "" {
		opts = append(opts, config.WithEnvFile(g.envFile))
	}
	s, err := config.Load(opts...)
	if err != nil {
		return nil, err
	}
	if g.logLevel != "" {
		s.Logging.Level = g.logLevel
		if err := s.Logging.Validate(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func newLogger(s *config.Settings) *logger.Logger {
	return logger.New(&s.Logging, s.Name)
}
