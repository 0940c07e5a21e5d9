package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	patenttypes "github.com/praxisip/molscope/pkg/types/patent"
)

var detailOutput string

// NewDetailCmd creates the detail command.
func NewDetailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detail <patent-id>",
		Short: "Show one patent with its publication family",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetail(cmd, args[0])
		},
	}

	cmd.Flags().StringVarP(&detailOutput, "output", "o", "text", "output format: text|json")
	return cmd
}

func runDetail(cmd *cobra.Command, patentID string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := buildService(cfg)
	if err != nil {
		return err
	}

	resp, err := svc.GetDetail(cmd.Context(), patentID)
	if err != nil {
		return err
	}

	if detailOutput == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	printDetail(resp)
	return nil
}

func printDetail(resp *patenttypes.DetailResponse) {
	p := resp.Patent

	color.Green("%s", p.PublicationNumber)
	if p.Title != "" {
		fmt.Println(p.Title)
	}
	fmt.Println()

	if p.Abstract != "" {
		fmt.Println(p.Abstract)
		fmt.Println()
	}
	if len(p.Applicants) > 0 {
		fmt.Printf("Applicants: %s\n", strings.Join(p.Applicants, ", "))
	}
	if len(p.Inventors) > 0 {
		fmt.Printf("Inventors:  %s\n", strings.Join(p.Inventors, ", "))
	}
	if p.PublicationDate != nil {
		fmt.Printf("Published:  %s\n", p.PublicationDate.Format("2006-01-02"))
	}
	if p.ApplicationDate != nil {
		fmt.Printf("Filed:      %s\n", p.ApplicationDate.Format("2006-01-02"))
	}
	if len(p.IPCCodes) > 0 {
		fmt.Printf("IPC:        %s\n", strings.Join(p.IPCCodes, ", "))
	}
	if len(p.CPCCodes) > 0 {
		fmt.Printf("CPC:        %s\n", strings.Join(p.CPCCodes, ", "))
	}
	if p.URL != "" {
		fmt.Printf("URL:        %s\n", p.URL)
	}

	if f := resp.Family; f != nil && len(f.Members) > 1 {
		fmt.Println()
		color.Cyan("Family %s (%s)", f.FamilyID, strings.Join(f.Jurisdictions, ", "))
		for _, member := range f.Members {
			fmt.Printf("  - %s\n", member)
		}
	}
}
