package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kenbun-app/kenbundata/internal/fields"
	"github.com/kenbun-app/kenbundata/internal/schema"
)

// harSummary is printed after an import.
type harSummary struct {
	ID        fields.ID        `json:"id"`
	Creator   string           `json:"creator"`
	Pages     int              `json:"pages"`
	Entries   int              `json:"entries"`
	UpdatedAt fields.Timestamp `json:"updatedAt"`
}

func (s harSummary) String() string {
	return fmt.Sprintf("%s\t%s\t%d pages\t%d entries\t%s", s.ID, s.Creator, s.Pages, s.Entries, s.UpdatedAt)
}

func summarizeHAR(h *schema.HAR) harSummary {
	return harSummary{
		ID:        h.ID,
		Creator:   h.Log.Creator.Name + " " + h.Log.Creator.Version,
		Pages:     len(h.Log.Pages),
		Entries:   h.EntryCount(),
		UpdatedAt: h.UpdatedAt,
	}
}

// harView prints the full archive as indented JSON in text mode.
type harView struct {
	*schema.HAR
}

func (v harView) String() string {
	data, err := json.MarshalIndent(v.HAR, "", "  ")
	if err != nil {
		return err.Error()
	}
	return string(data)
}

// NewHARCommand creates the har command group.
func NewHARCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "har",
		Short: "Import and fetch HTTP archives",
	}
	cmd.AddCommand(newHARImportCommand(rootOpts))
	cmd.AddCommand(newHARGetCommand(rootOpts))
	return cmd
}

func newHARImportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <har-file|->",
		Short: "Validate and store a HAR 1.2 document",
		Long: `Validate and store a HAR 1.2 document as exported by browser devtools.

Examples:
  kenbun har import session.har
  kenbun har import session.har --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			h, err := schema.ParseHAR(data)
			if err != nil {
				if errors.Is(err, schema.ErrInvalidEntity) {
					return err
				}
				return WrapExitError(ExitCommandError, "invalid HAR document", err)
			}

			ctx := cmd.Context()
			st, closeFn, err := opts.openStorage(ctx, cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := st.StoreHAR(ctx, h); err != nil {
				return err
			}
			return opts.formatter(cmd).Success(summarizeHAR(h))
		},
	}
}

func newHARGetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Fetch a HAR document by ID",
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

			h, err := st.GetHAR(ctx, id)
			if err != nil {
				return err
			}
			return opts.formatter(cmd).Success(harView{h})
		},
	}
}
