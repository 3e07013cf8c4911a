package cli

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kenbun-app/kenbundata/internal/fields"
	"github.com/kenbun-app/kenbundata/internal/schema"
)

// screenshotView prints a screenshot's ID and dimensions in text mode.
type screenshotView struct {
	*schema.Screenshot
}

func (v screenshotView) String() string {
	size := "?"
	if cfg, err := v.EncodedImage.Config(); err == nil {
		size = fmt.Sprintf("%dx%d", cfg.Width, cfg.Height)
	}
	return fmt.Sprintf("%s\t%s\t%s", v.ID, size, v.UpdatedAt)
}

// ScreenshotGetOptions holds flags for the screenshot get command.
type ScreenshotGetOptions struct {
	*RootOptions
	Output string
}

// NewScreenshotCommand creates the screenshot command group.
func NewScreenshotCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "screenshot",
		Short: "Store and fetch PNG screenshots",
	}
	cmd.AddCommand(newScreenshotAddCommand(rootOpts))
	cmd.AddCommand(newScreenshotGetCommand(rootOpts))
	return cmd
}

func newScreenshotAddCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <png-file|->",
		Short: "Store a PNG image as a screenshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			img, err := fields.ParseEncodedImage(base64.StdEncoding.EncodeToString(data))
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			st, closeFn, err := opts.openStorage(ctx, cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			sc := schema.NewScreenshot(img)
			if err := st.StoreScreenshot(ctx, sc); err != nil {
				return err
			}
			return opts.formatter(cmd).Success(screenshotView{sc})
		},
	}
}

func newScreenshotGetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScreenshotGetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Fetch a screenshot by ID",
		Args:  cobra.ExactArgs(1),
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

			sc, err := st.GetScreenshot(ctx, id)
			if err != nil {
				return err
			}

			if opts.Output != "" {
				raw, err := base64.StdEncoding.DecodeString(sc.EncodedImage.String())
				if err != nil {
					return err
				}
				if err := os.WriteFile(opts.Output, raw, 0o644); err != nil {
					return WrapExitError(ExitCommandError, "failed to write output", err)
				}
				opts.formatter(cmd).VerboseLog("wrote %d bytes to %s", len(raw), opts.Output)
			}
			return opts.formatter(cmd).Success(screenshotView{sc})
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the PNG to this file")
	return cmd
}
