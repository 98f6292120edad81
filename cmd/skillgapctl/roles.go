package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newRolesCmd() *cobra.Command {
	var (
		catalogFile string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "roles",
		Short: "List the role catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := loadCatalog(catalogFile)
			if err != nil {
				return err
			}
			roles := c.List()

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(roles)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ROLE\tSKILLS\tDESCRIPTION")
			for _, r := range roles {
				names := make([]string, len(r.RequiredSkills))
				for i, rs := range r.RequiredSkills {
					names[i] = fmt.Sprintf("%s (%.2f)", rs.Name, rs.Weight)
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", r.RoleName, strings.Join(names, ", "), r.Description)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&catalogFile, "catalog", "", "YAML catalog merged over the built-in roles")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print full role profiles as JSON")
	return cmd
}
