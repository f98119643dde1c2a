package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/Kariqs/amexan-eats/catalog"
	"github.com/Kariqs/amexan-eats/store/reststore"
	"github.com/spf13/cobra"
)

// NewFoodsCommand browses the catalog. It needs no session.
func NewFoodsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClientOptions{RootOptions: rootOpts}
	var search, category string
	cmd := &cobra.Command{
		Use:   "foods",
		Short: "Search the food catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.resolve()
			remote := reststore.New(opts.APIURL, opts.APIKey, nil)
			foods, err := catalog.NewService(remote).Search(cmd.Context(), search, category)
			if err != nil {
				return err
			}
			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), foods)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tPRICE\tRATING\tTAGS")
			for _, f := range foods {
				name := f.Name
				if f.IsFavorite {
					name += " *"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f\t%s\n", f.ID, name, f.Price.StringFixed(2), f.Rating, strings.Join(f.Tags, ","))
			}
			return tw.Flush()
		},
	}
	addClientFlags(cmd, opts)
	cmd.Flags().StringVarP(&search, "search", "s", "", "match name, description or tag")
	cmd.Flags().StringVar(&category, "category", "", "category id")
	return cmd
}
