package main

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// globalState is everything the commands touch outside their arguments.
type globalState struct {
	fs        afero.Fs
	stdout    io.Writer
	lookupEnv func(string) (string, bool)
	logger    *logrus.Logger

	conf     Config
	logLevel string
}

func newGlobalState() *globalState {
	return &globalState{
		fs:        afero.NewOsFs(),
		stdout:    os.Stdout,
		lookupEnv: os.LookupEnv,
		logger: &logrus.Logger{
			Out:       os.Stderr,
			Formatter: new(logrus.TextFormatter),
			Hooks:     make(logrus.LevelHooks),
			Level:     logrus.InfoLevel,
		},
	}
}

func newRootCommand(gs *globalState) *cobra.Command {
	root := &cobra.Command{
		Use:               "goffas",
		Short:             "assemble programs into GOFF objects",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: gs.persistentPreRunE,
	}
	root.PersistentFlags().AddFlagSet(gs.rootFlagSet())
	root.AddCommand(
		newAssembleCommand(gs),
		newDumpCommand(gs),
	)
	return root
}

func (gs *globalState) rootFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.StringVar(&gs.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	return flags
}

func (gs *globalState) persistentPreRunE(cmd *cobra.Command, _ []string) error {
	conf, err := readEnvConfig(gs.lookupEnv)
	if err != nil {
		return withExitCodeIfNone(err, ExitInvalidInput)
	}
	if cmd.Flags().Changed("log-level") {
		if conf.LogLevel, err = logrus.ParseLevel(gs.logLevel); err != nil {
			return withExitCodeIfNone(err, ExitInvalidInput)
		}
	}
	gs.conf = conf
	gs.logger.SetLevel(conf.LogLevel)
	gs.logger.Debugf("Log level: %s", conf.LogLevel)
	return nil
}

func execute(gs *globalState, args []string) error {
	root := newRootCommand(gs)
	root.SetArgs(args)
	root.SetOut(gs.stdout)
	return root.Execute()
}

func main() {
	gs := newGlobalState()
	if err := execute(gs, os.Args[1:]); err != nil {
		code := exitCodeOf(err)
		gs.logger.WithField("code", code).Error(err)
		os.Exit(int(code))
	}
}
