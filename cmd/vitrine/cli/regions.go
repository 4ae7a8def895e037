package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newRegionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regions",
		Short: "Show the configured regions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadRegions()
			if err != nil {
				return err
			}

			fmt.Printf("%-6s %-10s %-9s %s\n", "CODE", "PREFIX", "DEFAULT", "DOMAINS")
			fmt.Printf("%-6s %-10s %-9s %s\n", "----", "------", "-------", "-------")
			for _, r := range cfg.Regions {
				def := ""
				if r.Code == cfg.Default {
					def = "yes"
				}
				fmt.Printf("%-6s %-10s %-9s %s\n", r.Code, r.PathPrefix, def, strings.Join(r.Domains, ", "))
			}
			return nil
		},
	}
	return cmd
}
