// File: cmd/kodoctl/sign_cmd.go
package main

import (
	"fmt"
	"time"

	"kodoctl/internal/flags"

	"github.com/spf13/cobra"
)

type signFlags struct {
	bucket string
	key    string
	url    string
	expiry time.Duration
}

func newSignCmd(app *appContainer, root *rootFlags) *cobra.Command {
	cmdFlags := signFlags{}

	signCmd := &cobra.Command{
		Use:   "sign",
		Short: "Print upload tokens and signed download URLs",
	}

	uploadCmd := &cobra.Command{
		Use:   "upload",
		Short: "Print an upload token scoped to bucket:key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := app.target(root.provider)
			if err != nil {
				return err
			}

			token, err := app.ObjectService.SignUpload(cmd.Context(), target, cmdFlags.bucket, cmdFlags.key)
			if err != nil {
				return fmt.Errorf("error signing upload for '%s': %w", cmdFlags.key, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	uploadCmd.Flags().StringVarP(&cmdFlags.bucket, flags.Bucket, flags.BucketShort, "", "Bucket the token is scoped to (required)")
	uploadCmd.Flags().StringVarP(&cmdFlags.key, flags.Key, flags.KeyShort, "", "Object key the token is scoped to")
	uploadCmd.MarkFlagRequired(flags.Bucket)

	urlCmd := &cobra.Command{
		Use:   "url",
		Short: "Print a time-limited download URL for <url>/<key>",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := app.target(root.provider)
			if err != nil {
				return err
			}

			signed, err := app.ObjectService.SignURL(cmd.Context(), target, cmdFlags.url, cmdFlags.key, cmdFlags.expiry)
			if err != nil {
				return fmt.Errorf("error signing URL for '%s': %w", cmdFlags.key, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), signed)
			return nil
		},
	}
	urlCmd.Flags().StringVarP(&cmdFlags.url, flags.URL, flags.URLShort, "", "Download domain of the bucket (required)")
	urlCmd.Flags().StringVarP(&cmdFlags.key, flags.Key, flags.KeyShort, "", "Object key (required)")
	urlCmd.Flags().DurationVar(&cmdFlags.expiry, flags.Expiry, 0, "Lifetime of the URL (default download.expiry)")
	urlCmd.MarkFlagRequired(flags.URL)
	urlCmd.MarkFlagRequired(flags.Key)

	signCmd.AddCommand(uploadCmd, urlCmd)
	return signCmd
}
