package main

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"goffas/pkg/program"
)

type assembleCmd struct {
	gs *globalState

	output    string
	unhandled string
}

func newAssembleCommand(gs *globalState) *cobra.Command {
	c := &assembleCmd{gs: gs}
	cmd := &cobra.Command{
		Use:   "assemble [flags] program.yaml",
		Short: "Assemble a program description into a GOFF object",
		Example: `  goffas assemble hello.yaml
  goffas assemble -o hello.o --unhandled-attrs error hello.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: c.run,
	}
	cmd.Flags().AddFlagSet(c.flagSet())
	return cmd
}

func (c *assembleCmd) flagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("", pflag.ContinueOnError)
	flags.StringVarP(&c.output, "output", "o", "", "object file to write (default: input name with .o)")
	flags.StringVar(&c.unhandled, "unhandled-attrs", "warn", "what to do with unsupported symbol attributes: warn, ignore or error")
	return flags
}

// outputPath resolves the object path: flag, then environment, then the
// input name with its extension replaced.
func (c *assembleCmd) outputPath(cmd *cobra.Command, input string) string {
	if cmd.Flags().Changed("output") {
		return c.output
	}
	if c.gs.conf.Output != "" {
		return c.gs.conf.Output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".o"
}

func (c *assembleCmd) run(cmd *cobra.Command, args []string) error {
	policy := c.gs.conf.Unhandled
	if cmd.Flags().Changed("unhandled-attrs") {
		if err := policy.UnmarshalText([]byte(c.unhandled)); err != nil {
			return withExitCodeIfNone(err, ExitInvalidInput)
		}
	}

	input := args[0]
	log := c.gs.logger.WithField("program", input)
	prog, err := program.Load(c.gs.fs, input)
	if err != nil {
		return withExitCodeIfNone(err, ExitInvalidInput)
	}

	var buf bytes.Buffer
	if _, err := program.Assemble(prog, &buf, policy, log); err != nil {
		return withExitCodeIfNone(errors.Wrap(err, "assemble"), ExitInvalidInput)
	}

	out := c.outputPath(cmd, input)
	if err := afero.WriteFile(c.gs.fs, out, buf.Bytes(), 0o644); err != nil {
		return withExitCodeIfNone(errors.Wrap(err, "write object"), ExitWriteFailure)
	}
	log.WithFields(logrus.Fields{
		"output": out,
		"bytes":  buf.Len(),
	}).Info("Wrote object")
	return nil
}
