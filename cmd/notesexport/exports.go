package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/notesexport/pkg/cli"
	"mercator-hq/notesexport/pkg/config"
	"mercator-hq/notesexport/pkg/exports"
)

var exportsFlags struct {
	dir    string
	format string
	name   string
}

var exportsCmd = &cobra.Command{
	Use:   "exports",
	Short: "Inspect and maintain an exports directory",
	Long: `Inspect and maintain an exports directory without running the server.

The directory defaults to storage.exports_dir from the configuration and can
be overridden with --dir.

Examples:
  # List node names
  notesexport exports names

  # Print the latest bundle of a node
  notesexport exports latest --name laptop

  # List every export file as CSV
  notesexport exports list --format csv

  # Apply the retention policy now
  notesexport exports prune`,
}

var exportsNamesCmd = &cobra.Command{
	Use:   "names",
	Short: "List node names with at least one export",
	Args:  cobra.NoArgs,
	RunE:  runExportsNames,
}

var exportsLatestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Print the latest export of a node",
	Args:  cobra.NoArgs,
	RunE:  runExportsLatest,
}

var exportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List export files with their node name and day",
	Args:  cobra.NoArgs,
	RunE:  runExportsList,
}

var exportsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Apply the retention policy to the exports directory",
	Long: `Apply the retention policy to the exports directory.

The server prunes after every upload; this command is for directories that
received files by other means. It must not run against a directory a server
is writing to.`,
	Args: cobra.NoArgs,
	RunE: runExportsPrune,
}

func init() {
	rootCmd.AddCommand(exportsCmd)
	exportsCmd.AddCommand(exportsNamesCmd, exportsLatestCmd, exportsListCmd, exportsPruneCmd)

	exportsCmd.PersistentFlags().StringVarP(&exportsFlags.dir, "dir", "d", "", "exports directory (overrides storage.exports_dir)")
	exportsCmd.PersistentFlags().StringVarP(&exportsFlags.format, "format", "f", "text", "output format: text, json, csv")

	exportsLatestCmd.Flags().StringVarP(&exportsFlags.name, "name", "n", "", "node name")
	_ = exportsLatestCmd.MarkFlagRequired("name")
}

// exportsConfig loads the configuration and applies --dir.
func exportsConfig(cmd *cobra.Command) (*config.Config, cli.Formatter, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	if exportsFlags.dir != "" {
		cfg.Storage.ExportsDir = exportsFlags.dir
	}

	format, err := cli.ParseFormat(exportsFlags.format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, cli.NewFormatter(format), nil
}

func runExportsNames(cmd *cobra.Command, args []string) error {
	cfg, formatter, err := exportsConfig(cmd)
	if err != nil {
		return err
	}

	names, err := newStore(cfg).ListNames(context.Background())
	if err != nil {
		return cli.NewCommandError("exports names", err)
	}

	if _, ok := formatter.(*cli.TextFormatter); ok {
		return formatter.FormatTo(cmd.OutOrStdout(), names)
	}
	return formatter.FormatTo(cmd.OutOrStdout(), map[string][]string{"names": names})
}

func runExportsLatest(cmd *cobra.Command, args []string) error {
	cfg, _, err := exportsConfig(cmd)
	if err != nil {
		return err
	}

	doc, err := newStore(cfg).Latest(context.Background(), exportsFlags.name)
	if err != nil {
		return cli.NewCommandError("exports latest", err)
	}

	// The document is printed as stored whatever the format.
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", doc)
	return err
}

// fileTable renders export files for text and CSV output.
type fileTable []exports.File

func (t fileTable) Header() []string {
	return []string{"FILE", "NODE", "DAY", "TIMESTAMP"}
}

func (t fileTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, f := range t {
		rows = append(rows, []string{f.Name, f.NodeName, f.Day(), f.Timestamp})
	}
	return rows
}

func runExportsList(cmd *cobra.Command, args []string) error {
	cfg, formatter, err := exportsConfig(cmd)
	if err != nil {
		return err
	}

	files, err := newStore(cfg).Files(context.Background())
	if err != nil {
		return cli.NewCommandError("exports list", err)
	}

	if _, ok := formatter.(*cli.JSONFormatter); ok {
		return formatter.FormatTo(cmd.OutOrStdout(), files)
	}
	return formatter.FormatTo(cmd.OutOrStdout(), fileTable(files))
}

func runExportsPrune(cmd *cobra.Command, args []string) error {
	cfg, formatter, err := exportsConfig(cmd)
	if err != nil {
		return err
	}

	result := newStore(cfg).Prune(context.Background())
	report := pruneReport{
		Scanned:  result.Scanned,
		Deleted:  result.Deleted,
		Vanished: result.Vanished,
		Failed:   result.Failed,
	}

	if err := formatter.FormatTo(cmd.OutOrStdout(), report); err != nil {
		return err
	}

	if result.Failed > 0 {
		return cli.NewCommandError("exports prune", fmt.Errorf("%d files could not be removed", result.Failed))
	}
	return nil
}

// pruneReport is the printable form of a prune result.
type pruneReport struct {
	Scanned  int `json:"scanned"`
	Deleted  int `json:"deleted"`
	Vanished int `json:"vanished"`
	Failed   int `json:"failed"`
}

func (r pruneReport) Header() []string {
	return []string{"SCANNED", "DELETED", "VANISHED", "FAILED"}
}

func (r pruneReport) Rows() [][]string {
	return [][]string{{fmt.Sprint(r.Scanned), fmt.Sprint(r.Deleted), fmt.Sprint(r.Vanished), fmt.Sprint(r.Failed)}}
}
