// File: cmd/kodoctl/ls_cmd.go
package main

import (
	"errors"
	"fmt"

	"kodoctl/internal/flags"
	"kodoctl/pkg/storage"

	"github.com/spf13/cobra"
)

type lsFlags struct {
	bucket    string
	prefix    string
	delimiter string
	long      bool
}

func newLsCmd(app *appContainer, root *rootFlags) *cobra.Command {
	cmdFlags := lsFlags{}

	lsCmd := &cobra.Command{
		Use:   "ls",
		Short: "List the objects in a bucket",
		Long: `Lists every object in a bucket, following the listing cursor until the backend
reports the end. Each object is printed as 'key<TAB>hash<TAB>size' as soon as its
page arrives. Use --long for a table with a summary instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := app.target(root.provider)
			if err != nil {
				return err
			}

			query := storage.ListingQuery{Bucket: cmdFlags.bucket, Prefix: cmdFlags.prefix, Delimiter: cmdFlags.delimiter}
			out := cmd.OutOrStdout()

			var entries []storage.ObjectEntry
			emitted := 0
			for entry, err := range app.ObjectService.ListObjects(cmd.Context(), target, query) {
				if err != nil {
					if cmdFlags.long && len(entries) > 0 {
						fmt.Fprintln(out, app.ObjectFormatter.FormatEntryTable(entries))
					}
					var listingErr *storage.ListingError
					if errors.As(err, &listingErr) && listingErr.Emitted > 0 {
						fmt.Fprintln(cmd.ErrOrStderr(), app.ObjectFormatter.FormatPartialListing(listingErr.Emitted))
					}
					return fmt.Errorf("error listing bucket '%s': %w", cmdFlags.bucket, err)
				}

				emitted++
				if cmdFlags.long {
					entries = append(entries, entry)
					continue
				}
				fmt.Fprintln(out, app.ObjectFormatter.FormatEntryLine(entry))
			}

			if cmdFlags.long {
				fmt.Fprintln(out, app.ObjectFormatter.FormatEntryTable(entries))
			}
			app.Logger.Debug("Listing finished", "bucket", cmdFlags.bucket, "entries", emitted)
			return nil
		},
	}
	lsCmd.Flags().StringVarP(&cmdFlags.bucket, flags.Bucket, flags.BucketShort, "", "Bucket to list (required)")
	lsCmd.Flags().StringVarP(&cmdFlags.prefix, flags.Prefix, flags.PrefixShort, "", "Only list keys starting with this prefix")
	lsCmd.Flags().StringVarP(&cmdFlags.delimiter, flags.Delimiter, flags.DelimiterShort, "/", "Group keys by this delimiter; pass an empty value to disable grouping")
	lsCmd.Flags().BoolVarP(&cmdFlags.long, flags.Long, flags.LongShort, false, "Render a table with human-readable sizes")
	lsCmd.MarkFlagRequired(flags.Bucket)

	return lsCmd
}
