package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var navCmd = &cobra.Command{
	Use:   "nav",
	Short: "Print the navigation catalog",
	Args:  cobra.NoArgs,
	RunE:  runNav,
}

func init() {
	navCmd.Flags().Bool("json", false, "output the catalog as JSON")
	rootCmd.AddCommand(navCmd)
}

func runNav(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	sections := a.Catalog.Sections()
	if jsonOutput {
		return printJSON(sections)
	}
	for _, s := range sections {
		fmt.Println(s.Title)
		for _, item := range s.Items {
			fmt.Printf("  %-28s %s\n", item.Title, item.Path)
		}
	}
	return nil
}
