package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	asar "github.com/Nivl/asar-go"
	"github.com/Nivl/asar-go/ainternals/manifest"
	"github.com/Nivl/asar-go/internal/errutil"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list ARCHIVE",
		Short: "List the files stored in an archive",
		Args:  cobra.ExactArgs(1),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return listCmd(cmd.OutOrStdout(), args[0], isatty.IsTerminal(os.Stdout.Fd()))
	}
	return cmd
}

func listCmd(out io.Writer, archivePath string, colored bool) (err error) {
	a, err := asar.Open(archivePath)
	if err != nil {
		return err
	}
	defer errutil.Close(a, &err)

	return a.Manifest().Walk(func(path string, e *manifest.Entry) error {
		size := strconv.FormatInt(e.Size, 10)
		if colored {
			size = color.CyanString(size)
		}
		_, err := fmt.Fprintf(out, "%s\t%s\n", size, path)
		return err
	})
}
