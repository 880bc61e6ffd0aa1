package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	ctx := &cliContext{}

	rootCmd := &cobra.Command{
		Use:           "annotator",
		Short:         "Overlay annotations on images, PDF pages and video",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&ctx.configPath, "config", "c", "", "Configuration file path (YAML)")
	flags.StringVar(&ctx.storePath, "store", "", "Overlay store: *.db for SQLite, otherwise a directory of YAML files")
	flags.StringVar(&ctx.mediaID, "media-id", "", "Media id in the store (default: input file name)")
	flags.IntVar(&ctx.width, "width", 0, "Surface width (overrides config)")
	flags.IntVar(&ctx.height, "height", 0, "Surface height (overrides config)")
	flags.IntVar(&ctx.dpi, "dpi", 150, "DPI for PDF input")

	rootCmd.AddCommand(newRenderCommand(ctx))
	rootCmd.AddCommand(newReplayCommand(ctx))
	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newExportCommand(ctx))

	return rootCmd
}
