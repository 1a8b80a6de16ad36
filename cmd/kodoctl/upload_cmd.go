// File: cmd/kodoctl/upload_cmd.go
package main

import (
	"fmt"

	"kodoctl/internal/flags"

	"github.com/spf13/cobra"
)

type uploadFlags struct {
	inPath string
	bucket string
	key    string
}

func newUploadCmd(app *appContainer, root *rootFlags) *cobra.Command {
	cmdFlags := uploadFlags{}

	uploadCmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload a local file to a bucket",
		Long: `Uploads a single local file. The object key defaults to the file's base name.
For example: 'kodoctl upload -i ./report.csv -b logs -k reports/2024/report.csv'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := app.target(root.provider)
			if err != nil {
				return err
			}

			result, err := app.ObjectService.Upload(cmd.Context(), target, cmdFlags.inPath, cmdFlags.bucket, cmdFlags.key)
			if err != nil {
				return fmt.Errorf("error uploading '%s': %w", cmdFlags.inPath, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), app.ObjectFormatter.FormatUploadResult(result))
			return nil
		},
	}
	uploadCmd.Flags().StringVarP(&cmdFlags.inPath, flags.InPath, flags.InPathShort, "", "Local file to upload (required)")
	uploadCmd.Flags().StringVarP(&cmdFlags.bucket, flags.Bucket, flags.BucketShort, "", "Destination bucket (required)")
	uploadCmd.Flags().StringVarP(&cmdFlags.key, flags.Key, flags.KeyShort, "", "Object key (defaults to the file's base name)")
	uploadCmd.MarkFlagRequired(flags.InPath)
	uploadCmd.MarkFlagRequired(flags.Bucket)

	return uploadCmd
}
