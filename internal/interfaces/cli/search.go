package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	domainsearch "github.com/praxisip/molscope/internal/domain/search"
	patenttypes "github.com/praxisip/molscope/pkg/types/patent"
)

var (
	searchMode     string
	searchPage     int
	searchPageSize int
	searchOutput   string
)

// NewSearchCmd creates the search command.
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <molecule>",
		Short: "Search patents mentioning a molecule",
		Long: `Search patents mentioning a molecule. The identifier can be a
chemical name (aspirin), a molecular formula (C9H8O4), or a SMILES
string (CC(=O)OC1=CC=CC=C1C(=O)O).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&searchMode, "mode", "exact", "search mode: exact|similarity|substructure")
	cmd.Flags().IntVar(&searchPage, "page", 1, "result page")
	cmd.Flags().IntVar(&searchPageSize, "page-size", 10, "results per page (max 100)")
	cmd.Flags().StringVarP(&searchOutput, "output", "o", "table", "output format: table|json")
	return cmd
}

func runSearch(cmd *cobra.Command, identifier string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := buildService(cfg)
	if err != nil {
		return err
	}

	query, err := domainsearch.NewSearchQuery(identifier, searchMode, searchPage, searchPageSize)
	if err != nil {
		return err
	}

	resp, err := svc.Search(cmd.Context(), query)
	if err != nil {
		return err
	}

	if searchOutput == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	printSearchTable(resp)
	return nil
}

func printSearchTable(resp *patenttypes.SearchResponse) {
	if len(resp.Results) == 0 {
		color.Yellow("No results for %q.", resp.Query)
		return
	}

	color.Green("Found %d results for %q (page %d of %d)",
		resp.Pagination.TotalResults, resp.Query,
		resp.Pagination.CurrentPage, resp.Pagination.TotalPages)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Publication", "Title", "Applicants", "Published"})
	table.SetBorder(false)
	table.SetColWidth(60)

	for _, rec := range resp.Results {
		published := ""
		if rec.PublicationDate != nil {
			published = rec.PublicationDate.Format("2006-01-02")
		}
		table.Append([]string{
			rec.PublicationNumber,
			truncate(rec.Title, 60),
			truncate(strings.Join(rec.Applicants, ", "), 40),
			published,
		})
	}
	table.Render()

	if resp.Pagination.HasNext {
		fmt.Printf("\nNext page: --page %d\n", *resp.Pagination.NextPage)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
