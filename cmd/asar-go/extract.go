package main

import (
	"io"

	asar "github.com/Nivl/asar-go"
	"github.com/Nivl/asar-go/internal/errutil"
	"github.com/spf13/cobra"
)

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract ARCHIVE PATH",
		Short: "Write the content of a file stored in an archive to stdout",
		Args:  cobra.ExactArgs(2),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return extractCmd(cmd.OutOrStdout(), args[0], args[1])
	}
	return cmd
}

func extractCmd(out io.Writer, archivePath, filePath string) (err error) {
	a, err := asar.Open(archivePath)
	if err != nil {
		return err
	}
	defer errutil.Close(a, &err)

	data, err := a.ReadFile(filePath)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
