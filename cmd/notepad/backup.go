package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dukerupert/notepad/internal/backup"
)

func promptPassphrase(prompt string) (string, error) {
	if p := os.Getenv("NOTEPAD_BACKUP_PASSPHRASE"); p != "" {
		return p, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("no terminal to read the passphrase from; set NOTEPAD_BACKUP_PASSPHRASE")
	}
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read passphrase: %w", err)
	}
	return string(b), nil
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Export or import an encrypted copy of all notes",
}

var exportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Write an encrypted backup of all notes to FILE",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ns, closeNotes, err := openNotes()
		if err != nil {
			return err
		}
		defer closeNotes()

		passphrase, err := promptPassphrase("Passphrase: ")
		if err != nil {
			return err
		}
		sealed, err := backup.Export(ns, passphrase)
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[0], sealed, 0o600); err != nil {
			return fmt.Errorf("write backup: %w", err)
		}
		logger.Info("backup written", "file", args[0], "notes", len(ns.List()))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Replace all notes with the contents of an encrypted backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sealed, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read backup: %w", err)
		}

		ns, closeNotes, err := openNotes()
		if err != nil {
			return err
		}
		defer closeNotes()

		passphrase, err := promptPassphrase("Passphrase: ")
		if err != nil {
			return err
		}
		n, err := backup.Import(ns, sealed, passphrase)
		if err != nil {
			return err
		}
		logger.Info("backup restored", "file", args[0], "notes", n)
		return nil
	},
}

func init() {
	backupCmd.AddCommand(exportCmd, importCmd)
	rootCmd.AddCommand(backupCmd)
}
