package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docview/internal/clipboard"
	"github.com/dgallion1/docview/internal/view"
)

var copyCmd = &cobra.Command{
	Use:   "copy [path] [block]",
	Short: "Copy a code block of a document to the system clipboard",
	Long:  `Loads the document the way the viewer does and clicks the copy control of the code block at the given zero-based index.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runCopy,
}

func init() {
	rootCmd.AddCommand(copyCmd)
}

func runCopy(cmd *cobra.Command, args []string) error {
	index, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("block index must be a number: %w", err)
	}

	a, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	r := a.NewRouter("", view.WithClipboard(clipboard.System{}))
	defer r.Close()

	if err := r.Navigate(cmd.Context(), args[0], ""); err != nil {
		return err
	}
	ok, err := r.Copy(index)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("clipboard unavailable")
	}
	fmt.Println(r.Snapshot().CopyLabels[index])
	return nil
}
