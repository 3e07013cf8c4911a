package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"

	"github.com/kenbun-app/kenbundata/internal/fields"
	"github.com/kenbun-app/kenbundata/internal/schema"
)

// blobView is the metadata printed for a blob in text mode.
type blobView struct {
	*schema.Blob
}

func (v blobView) String() string {
	mt := v.MimeType.String()
	if mt == "" {
		mt = "-"
	}
	return fmt.Sprintf("%s\t%s\t%d bytes\t%s", v.ID, mt, len(v.Data), v.UpdatedAt)
}

// BlobAddOptions holds flags for the blob add command.
type BlobAddOptions struct {
	*RootOptions
	MimeType string
}

// BlobGetOptions holds flags for the blob get command.
type BlobGetOptions struct {
	*RootOptions
	Output string
}

// NewBlobCommand creates the blob command group.
func NewBlobCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blob",
		Short: "Store and fetch binary payloads",
	}
	cmd.AddCommand(newBlobAddCommand(rootOpts))
	cmd.AddCommand(newBlobGetCommand(rootOpts))
	return cmd
}

func newBlobAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BlobAddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add <file|->",
		Short: "Store a file as a blob",
		Long: `Store the contents of a file ("-" reads stdin) as a blob.

The media type is sniffed from the content unless --mime-type is given.

Examples:
  kenbun blob add page.html
  cat report.pdf | kenbun blob add - --mime-type application/pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			mt, err := resolveMimeType(opts.MimeType, data)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			st, closeFn, err := opts.openStorage(ctx, cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			b := schema.NewBlob(data, mt)
			if err := st.StoreBlob(ctx, b); err != nil {
				return err
			}
			return opts.formatter(cmd).Success(blobView{b})
		},
	}

	cmd.Flags().StringVarP(&opts.MimeType, "mime-type", "t", "", "media type (detected when empty)")
	return cmd
}

func newBlobGetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BlobGetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Fetch a blob by ID",
		Long: `Fetch a blob by ID.

With --output the payload is written to that file and its metadata printed.
In text mode without --output the raw payload is written to stdout. JSON and
YAML output carry the payload base64 encoded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := fields.ParseID(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			st, closeFn, err := opts.openStorage(ctx, cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			b, err := st.GetBlob(ctx, id)
			if err != nil {
				return err
			}

			switch {
			case opts.Output != "":
				if err := os.WriteFile(opts.Output, b.Data, 0o644); err != nil {
					return WrapExitError(ExitCommandError, "failed to write output", err)
				}
				opts.formatter(cmd).VerboseLog("wrote %d bytes to %s", len(b.Data), opts.Output)
			case opts.Format == "text":
				_, err := cmd.OutOrStdout().Write(b.Data)
				return err
			}
			return opts.formatter(cmd).Success(blobView{b})
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the payload to this file")
	return cmd
}

// readInput reads a file argument, with "-" meaning stdin.
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to read stdin", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to read input", err)
	}
	return data, nil
}

// resolveMimeType parses explicit, or sniffs data when explicit is empty.
// A sniffed type the media type grammar rejects falls back to
// application/octet-stream.
func resolveMimeType(explicit string, data []byte) (fields.MimeType, error) {
	if explicit != "" {
		return fields.ParseMimeType(explicit)
	}
	if mt, err := fields.ParseMimeType(mimetype.Detect(data).String()); err == nil {
		return mt, nil
	}
	return fields.MustParseMimeType("application/octet-stream"), nil
}
