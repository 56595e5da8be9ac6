package main

import (
	asar "github.com/Nivl/asar-go"
	"github.com/Nivl/asar-go/ainternals/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func newPackCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pack SOURCE_DIR OUTPUT",
		Short: "Pack a directory into a single archive",
		Args:  cobra.ExactArgs(2),
	}

	unpack := cmd.Flags().StringArray("unpack", nil, "Glob pattern of files to keep out of the packed body. May be repeated.")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return packCmd(flags, args[0], args[1], *unpack)
	}
	return cmd
}

func packCmd(flags *globalFlags, sourceDir, outputPath string, extraPatterns []string) error {
	// flags have the last word, so they go after the config-file
	// and env patterns
	patterns, err := config.PackDefaults(flags.env, afero.NewOsFs())
	if err != nil {
		return err
	}
	patterns = append(patterns, extraPatterns...)

	return asar.Pack(sourceDir, outputPath, patterns)
}
