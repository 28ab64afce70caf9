package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"goffas/pkg/goff"
)

func newDumpCommand(gs *globalState) *cobra.Command {
	return &cobra.Command{
		Use:   "dump file.o",
		Short: "Print the logical records of a GOFF object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := afero.ReadFile(gs.fs, args[0])
			if err != nil {
				return withExitCodeIfNone(errors.Wrap(err, "read object"), ExitInvalidInput)
			}
			obj, err := goff.ReadObject(data)
			if err != nil {
				return withExitCodeIfNone(errors.Wrapf(err, "%s", args[0]), ExitInvalidInput)
			}
			return obj.Dump(cmd.OutOrStdout())
		},
	}
}
