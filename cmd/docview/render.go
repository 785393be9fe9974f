package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render [path]",
	Short: "Render a document to sanitized HTML",
	Long:  `Fetches the document, converts it from Markdown, sanitizes it and runs code annotation, copy controls and heading extraction.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().Bool("toc", false, "also print the table of contents")
	renderCmd.Flags().Bool("json", false, "output the rendered document as JSON")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	withTOC, _ := cmd.Flags().GetBool("toc")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	raw, err := a.Renderer.Obtain(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	doc, err := a.Renderer.Render(args[0], raw)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", args[0], err)
	}

	if jsonOutput {
		return printJSON(doc)
	}
	fmt.Println(doc.HTML)
	if withTOC {
		fmt.Println(doc.TOC)
	}
	return nil
}
