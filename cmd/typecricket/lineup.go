package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/typecricket/internal/storage"
)

var flagImportName string

var lineupCmd = &cobra.Command{
	Use:   "lineup",
	Short: "Manage saved lineups",
	Long: `List, show, import, export and delete the batting orders saved in the
lineup database. Lineup files are YAML:

  name: India 2003
  players:
    - Tendulkar
    - Sehwag
    - Ganguly

Missing or blank players fall back to the default XI.

Examples:
  typecricket lineup list
  typecricket lineup show aussies
  typecricket lineup import ./aussies.yaml
  typecricket lineup export aussies > aussies.yaml
  typecricket lineup delete aussies`,
}

var lineupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved lineups",
	Args:  cobra.NoArgs,
	RunE:  runLineupList,
}

var lineupShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a saved lineup's batting order",
	Args:  cobra.ExactArgs(1),
	RunE:  runLineupShow,
}

var lineupImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Save a lineup from a YAML file (- for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE:  runLineupImport,
}

var lineupExportCmd = &cobra.Command{
	Use:   "export <name>",
	Short: "Write a saved lineup as YAML to stdout",
	Args:  cobra.ExactArgs(1),
	RunE:  runLineupExport,
}

var lineupDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved lineup",
	Args:  cobra.ExactArgs(1),
	RunE:  runLineupDelete,
}

func init() {
	lineupImportCmd.Flags().StringVar(&flagImportName, "name", "", "Save under this name instead of the file's name")

	lineupCmd.AddCommand(lineupListCmd)
	lineupCmd.AddCommand(lineupShowCmd)
	lineupCmd.AddCommand(lineupImportCmd)
	lineupCmd.AddCommand(lineupExportCmd)
	lineupCmd.AddCommand(lineupDeleteCmd)
}

// withStore opens the lineup database for the duration of fn.
func withStore(fn func(*storage.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func runLineupList(cmd *cobra.Command, _ []string) error {
	return withStore(func(store *storage.Store) error {
		lineups, err := store.Lineups()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(lineups) == 0 {
			fmt.Fprintln(out, "No lineups saved yet.")
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Run 'typecricket lineup import <file>' or press ctrl+e in an innings to make one.")
			return nil
		}

		fmt.Fprintf(out, "  %-24s  %-28s  %s\n", "Name", "Opening pair", "Updated")
		fmt.Fprintf(out, "  %-24s  %-28s  %s\n", "----", "------------", "-------")
		for _, l := range lineups {
			pair := l.Players[0] + ", " + l.Players[1]
			fmt.Fprintf(out, "  %-24s  %-28s  %s\n", l.Name, pair, l.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	})
}

func runLineupShow(cmd *cobra.Command, args []string) error {
	return withStore(func(store *storage.Store) error {
		l, err := store.Lineup(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n\n", l.Name)
		for i, p := range l.Players {
			fmt.Fprintf(out, "  %2d. %s\n", i+1, p)
		}
		return nil
	})
}

func runLineupImport(cmd *cobra.Command, args []string) error {
	var r io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	lf, err := storage.ReadLineupFile(r)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(flagImportName)
	if name == "" {
		name = strings.TrimSpace(lf.Name)
	}
	if name == "" {
		return fmt.Errorf("lineup file has no name; pass --name")
	}

	return withStore(func(store *storage.Store) error {
		l, err := store.SaveLineup(name, lf.Players)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved lineup %q (%s, %s, ...)\n", l.Name, l.Players[0], l.Players[1])
		return nil
	})
}

func runLineupExport(cmd *cobra.Command, args []string) error {
	return withStore(func(store *storage.Store) error {
		l, err := store.Lineup(args[0])
		if err != nil {
			return err
		}
		return storage.WriteLineupFile(cmd.OutOrStdout(), l)
	})
}

func runLineupDelete(cmd *cobra.Command, args []string) error {
	return withStore(func(store *storage.Store) error {
		if err := store.DeleteLineup(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted lineup %q\n", args[0])
		return nil
	})
}
