package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	listJSON  bool
	listQuery string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ns, closeNotes, err := openNotes()
		if err != nil {
			return err
		}
		defer closeNotes()

		notes := ns.Search(listQuery)

		if listJSON {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(notes)
		}

		if len(notes) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No notes yet")
			return nil
		}
		for _, n := range notes {
			star := " "
			if n.Starred {
				star = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d  %s  %s\n", star, n.ID, n.Date, n.Title)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Only notes whose title or content contains this text")
}
