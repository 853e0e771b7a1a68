// Package main provides the shiori command line tool for tagging covers
// and building aesthetic profiles offline.
package main

import (
	"encoding/json/jsontext"
	"encoding/json/v2"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/shioriapp/shiori-server/internal/aesthetic"
	"github.com/shioriapp/shiori-server/internal/layout"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "shiori",
		Short:         "Aesthetic tagging for book covers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(tagCmd())
	root.AddCommand(profileCmd())
	root.AddCommand(filtersCmd())
	root.AddCommand(heightCmd())

	return root
}

func tagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tag <imageRef> [title]",
		Short: "Print the aesthetic tags for a cover",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := ""
			if len(args) == 2 {
				title = args[1]
			}
			tags := aesthetic.Extract(args[0], title)
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(tags.Strings(), ", "))
			return nil
		},
	}
}

func profileCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "profile -f books.yaml",
		Short: "Print the aesthetic profile of a list of books",
		Long: "Reads a YAML or JSON list of {uri, title} entries and prints the\n" +
			"ranked aesthetics with their colors as JSON.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			books, err := readBooks(file)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), aesthetic.Aggregate(books))
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "book list (.yaml, .yml or .json)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func filtersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "filters",
		Short: "Print the aesthetic filter vocabulary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, f := range aesthetic.Filters() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", f.Value, f.Label, f.Color)
			}
			return tw.Flush()
		},
	}
}

func heightCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "height <id>",
		Short: "Print the masonry tile height for a book ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), layout.HeightFor(args[0]))
			return nil
		},
	}
}

// readBooks loads a book list, choosing the decoder by file extension.
func readBooks(path string) ([]aesthetic.BookRef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read book list: %w", err)
	}

	var books []aesthetic.BookRef
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &books)
	case ".json":
		err = json.Unmarshal(data, &books)
	default:
		return nil, fmt.Errorf("unsupported book list format %q (want .yaml, .yml or .json)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse book list: %w", err)
	}
	return books, nil
}

func writeJSON(w io.Writer, v any) error {
	if err := json.MarshalWrite(w, v, jsontext.WithIndent("  ")); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}
