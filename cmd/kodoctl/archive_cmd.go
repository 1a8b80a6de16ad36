// File: cmd/kodoctl/archive_cmd.go
package main

import (
	"fmt"

	"kodoctl/internal/flags"
	"kodoctl/internal/service"

	"github.com/spf13/cobra"
)

type archiveFlags struct {
	inPath     string
	outPrefix  string
	bucket     string
	prefix     string
	delimiter  string
	compressor string
}

func newArchiveCmd(app *appContainer, root *rootFlags) *cobra.Command {
	cmdFlags := archiveFlags{}

	archiveCmd := &cobra.Command{
		Use:   "archive",
		Short: "Compress a path into a dated tarball and upload it",
		Long: `Builds '<outprefix>-YYYYMMDD.tar.gz' in the current directory from the input path,
uploads it and removes the local file afterwards, whether or not the upload succeeded.
For example: 'kodoctl archive -i /var/log/nginx -o nginx -b backups -p logs -d /'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := app.target(root.provider)
			if err != nil {
				return err
			}

			compressor, err := app.compressor(cmdFlags.compressor)
			if err != nil {
				return err
			}

			result, err := app.ObjectService.ArchiveAndUpload(cmd.Context(), target, compressor, service.ArchiveRequest{
				InPath:    cmdFlags.inPath,
				OutPrefix: cmdFlags.outPrefix,
				Bucket:    cmdFlags.bucket,
				KeyPrefix: cmdFlags.prefix,
				Delimiter: cmdFlags.delimiter,
			})
			if result.CleanupErr != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), app.ObjectFormatter.FormatWarning(result.CleanupErr.Error()))
			}
			if err != nil {
				return fmt.Errorf("error archiving '%s': %w", cmdFlags.inPath, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), app.ObjectFormatter.FormatUploadResult(result.Upload))
			return nil
		},
	}
	archiveCmd.Flags().StringVarP(&cmdFlags.inPath, flags.InPath, flags.InPathShort, "", "File or directory to archive (required)")
	archiveCmd.Flags().StringVarP(&cmdFlags.outPrefix, flags.OutPath, flags.OutPathShort, "", "Name prefix of the tarball (required)")
	archiveCmd.Flags().StringVarP(&cmdFlags.bucket, flags.Bucket, flags.BucketShort, "", "Destination bucket (required)")
	archiveCmd.Flags().StringVarP(&cmdFlags.prefix, flags.Prefix, flags.PrefixShort, "", "Key prefix for the uploaded tarball")
	archiveCmd.Flags().StringVarP(&cmdFlags.delimiter, flags.Delimiter, flags.DelimiterShort, "/", "Separator placed between the key prefix and the tarball name")
	archiveCmd.Flags().StringVar(&cmdFlags.compressor, flags.Compressor, "", "Compressor to use: tar or native (default from config)")
	archiveCmd.MarkFlagRequired(flags.InPath)
	archiveCmd.MarkFlagRequired(flags.OutPath)
	archiveCmd.MarkFlagRequired(flags.Bucket)

	return archiveCmd
}
