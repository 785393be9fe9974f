package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docview/internal/view"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search document and section titles",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	query := strings.TrimSpace(args[0])
	if query == "" {
		return fmt.Errorf("query must not be blank")
	}

	a, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	results := a.Index.Search(query)
	if jsonOutput {
		return printJSON(results)
	}
	if len(results) == 0 {
		fmt.Println(view.NoResultsMessage)
		return nil
	}
	for _, r := range results {
		fmt.Printf("%s › %s\n    %s\n", r.Section, r.Title, r.Path)
	}
	return nil
}
