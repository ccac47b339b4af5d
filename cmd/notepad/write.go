package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dukerupert/notepad/internal/model"
)

var (
	addTitle   string
	addContent string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a note at the top of the list",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ns, closeNotes, err := openNotes()
		if err != nil {
			return err
		}
		defer closeNotes()

		var patch model.NotePatch
		if cmd.Flags().Changed("title") {
			patch.Title = &addTitle
		}
		if cmd.Flags().Changed("content") {
			patch.Content = &addContent
		}

		note, err := ns.CreateWith(patch)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), note.ID)
		return nil
	},
}

var starCmd = &cobra.Command{
	Use:   "star ID",
	Short: "Toggle the star on a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}

		ns, closeNotes, err := openNotes()
		if err != nil {
			return err
		}
		defer closeNotes()

		note, ok, err := ns.ToggleStar(id)
		if err != nil {
			return err
		}
		if !ok {
			logger.Info("no note with that id", "id", id)
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d starred=%t\n", note.ID, note.Starred)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}

		ns, closeNotes, err := openNotes()
		if err != nil {
			return err
		}
		defer closeNotes()

		removed, err := ns.Delete(id)
		if err != nil {
			return err
		}
		if !removed {
			logger.Info("no note with that id", "id", id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd, starCmd, deleteCmd)
	addCmd.Flags().StringVar(&addTitle, "title", "", "Title instead of the default")
	addCmd.Flags().StringVar(&addContent, "content", "", "Content instead of the default")
}
