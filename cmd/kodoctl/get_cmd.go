// File: cmd/kodoctl/get_cmd.go
package main

import (
	"fmt"

	"kodoctl/internal/flags"
	"kodoctl/internal/ui/prompt"

	"github.com/spf13/cobra"
)

type getFlags struct {
	url     string
	key     string
	outPath string
	force   bool
}

func newGetCmd(app *appContainer, root *rootFlags) *cobra.Command {
	cmdFlags := getFlags{}

	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Download an object through a signed URL",
		Long: `Signs <url>/<key> with a time-limited token, downloads it and writes the bytes to
the output path. An existing file is only replaced after confirmation or with --force.
For example: 'kodoctl get -u http://dl.example.com -k reports/q1.csv -o q1.csv'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := app.target(root.provider)
			if err != nil {
				return err
			}

			if !cmdFlags.force {
				exists, err := app.ObjectService.Exists(cmdFlags.outPath)
				if err != nil {
					return fmt.Errorf("error checking '%s': %w", cmdFlags.outPath, err)
				}
				if exists {
					confirmed, err := prompt.ConfirmOverwrite(app.Prompter, cmdFlags.outPath)
					if err != nil {
						return err
					}
					if !confirmed {
						fmt.Fprintln(cmd.OutOrStdout(), "Download cancelled.")
						return nil
					}
				}
			}

			n, err := app.ObjectService.Download(cmd.Context(), target, cmdFlags.url, cmdFlags.key, cmdFlags.outPath)
			if err != nil {
				return fmt.Errorf("error downloading '%s': %w", cmdFlags.key, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), app.ObjectFormatter.FormatDownloadResult(cmdFlags.key, cmdFlags.outPath, n))
			return nil
		},
	}
	getCmd.Flags().StringVarP(&cmdFlags.url, flags.URL, flags.URLShort, "", "Download domain of the bucket, e.g. http://dl.example.com (required)")
	getCmd.Flags().StringVarP(&cmdFlags.key, flags.Key, flags.KeyShort, "", "Object key (required)")
	getCmd.Flags().StringVarP(&cmdFlags.outPath, flags.OutPath, flags.OutPathShort, "", "Local file to write (required)")
	getCmd.Flags().BoolVarP(&cmdFlags.force, flags.Force, flags.ForceShort, false, "Overwrite the output file without asking")
	getCmd.MarkFlagRequired(flags.URL)
	getCmd.MarkFlagRequired(flags.Key)
	getCmd.MarkFlagRequired(flags.OutPath)

	return getCmd
}
