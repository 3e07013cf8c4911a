package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kenbun-app/kenbundata/internal/fields"
	"github.com/kenbun-app/kenbundata/internal/paging"
	"github.com/kenbun-app/kenbundata/internal/schema"
)

// urlView prints one URL per line in text mode.
type urlView struct {
	*schema.URL
}

func (v urlView) String() string {
	return fmt.Sprintf("%s\t%s\t%s", v.ID, v.URL.URL, v.UpdatedAt)
}

// urlsView is the result of url add.
type urlsView []*schema.URL

func (v urlsView) String() string {
	lines := make([]string, len(v))
	for i, u := range v {
		lines[i] = urlView{u}.String()
	}
	return strings.Join(lines, "\n")
}

// urlPageView is the result of url list.
type urlPageView struct {
	*paging.Page[schema.URL]
}

func (v urlPageView) String() string {
	var b strings.Builder
	for i := range v.Items {
		b.WriteString(urlView{&v.Items[i]}.String())
		b.WriteByte('\n')
	}
	if len(v.Items) == 0 {
		b.WriteString("No URLs found.\n")
	}
	if v.Prev != nil {
		fmt.Fprintf(&b, "prev: %s\n", v.Prev)
	}
	if v.Next != nil {
		fmt.Fprintf(&b, "next: %s\n", v.Next)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// URLListOptions holds flags for the url list command.
type URLListOptions struct {
	*RootOptions
	paging.Params
}

// NewURLCommand creates the url command group.
func NewURLCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "url",
		Short: "Store, fetch and list URLs",
	}
	cmd.AddCommand(newURLAddCommand(rootOpts))
	cmd.AddCommand(newURLGetCommand(rootOpts))
	cmd.AddCommand(newURLListCommand(rootOpts))
	return cmd
}

func newURLAddCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <url>...",
		Short: "Store one or more URLs",
		Long: `Store one or more http(s) URLs, each under a fresh ID.

Examples:
  kenbun url add https://kenbun.app
  kenbun url add https://a.example https://b.example --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, closeFn, err := opts.openStorage(ctx, cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			stored := make(urlsView, 0, len(args))
			for _, raw := range args {
				u := schema.NewURL(raw)
				if err := st.StoreURL(ctx, u); err != nil {
					return err
				}
				stored = append(stored, u)
			}
			return opts.formatter(cmd).Success(stored)
		},
	}
}

func newURLGetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Fetch a URL by ID",
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

			u, err := st.GetURL(ctx, id)
			if err != nil {
				return err
			}
			return opts.formatter(cmd).Success(urlView{u})
		},
	}
}

func newURLListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &URLListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List URLs newest first",
		Long: `List stored URLs, most recently updated first.

Pass the next or prev token printed with a page to --cursor to move to the
adjacent page.

Examples:
  kenbun url list --limit 10
  kenbun url list --limit 10 --cursor PnwxNjc0Mzk3NzY0NDc5fHoxZERMb0NlUTFPdHZaMWNEWE00YUE=`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := opts.Params.Normalize()
			cursor, err := params.ParsedCursor()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			st, closeFn, err := opts.openStorage(ctx, cmd)
			if err != nil {
				return err
			}
			defer closeFn()

			page, err := st.ListURLs(ctx, params.Limit, cursor)
			if err != nil {
				return err
			}
			opts.formatter(cmd).VerboseLog("listed %d urls (limit %d)", len(page.Items), params.Limit)
			return opts.formatter(cmd).Success(urlPageView{page})
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", paging.DefaultLimit,
		fmt.Sprintf("page size (at most %d)", paging.MaxLimit))
	cmd.Flags().StringVar(&opts.Cursor, "cursor", "", "page token from a previous listing")

	return cmd
}
