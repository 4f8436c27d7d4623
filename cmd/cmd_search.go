package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/forge-dev/forge/search"
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search PATTERN [PATH]",
		Short: "Search file contents under a directory",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  SearchHandler,
	}

	cmd.Flags().BoolP("ignore-case", "i", false, "Case-insensitive search")
	cmd.Flags().BoolP("word", "w", false, "Match whole words only")
	cmd.Flags().StringP("glob", "g", "", "Only search files matching this glob")
	cmd.Flags().Int("workers", 8, "Number of files to search concurrently")
	return cmd
}

func SearchHandler(cmd *cobra.Command, args []string) error {
	pattern := args[0]
	root := "."
	if len(args) > 1 {
		root = args[1]
	}

	ignoreCase, _ := cmd.Flags().GetBool("ignore-case")
	wholeWord, _ := cmd.Flags().GetBool("word")
	glob, _ := cmd.Flags().GetString("glob")
	workers, _ := cmd.Flags().GetInt("workers")

	searcher := search.NewSearcher().WithWorkers(workers)
	if ignoreCase {
		searcher = searcher.CaseInsensitive()
	}
	if wholeWord {
		searcher = searcher.WholeWord()
	}

	var matches []search.Match
	var err error
	if glob != "" {
		var files []string
		files, err = search.Glob(root, glob)
		if err != nil {
			return err
		}
		matches, err = searcher.SearchFiles(cmd.Context(), files, pattern)
	} else {
		matches, err = searcher.SearchDir(cmd.Context(), root, pattern)
	}
	if err != nil {
		return err
	}

	for _, m := range matches {
		rel, relErr := filepath.Rel(root, m.File)
		if relErr != nil {
			rel = m.File
		}
		fmt.Printf("%s:%d:%d: %s\n", rel, m.Line, m.Column, m.Text)
	}

	if len(matches) == 0 {
		fmt.Println("no matches")
	}
	return nil
}
