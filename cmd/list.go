package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/KaramelBytes/voltrack-cli/internal/dashboard"
	"github.com/KaramelBytes/voltrack-cli/internal/study"
	"github.com/spf13/cobra"
)

var (
	listStudies   bool
	listDatasets  bool
	listStudyName string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List studies or the datasets of a study",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if listStudies == listDatasets { // either both true or both false
			return fmt.Errorf("specify exactly one of --studies or --datasets")
		}
		if listStudies {
			return listAllStudies(out)
		}
		if listStudyName == "" {
			return fmt.Errorf("--study is required when using --datasets")
		}
		s, err := resolveStudy(listStudyName)
		if err != nil {
			return err
		}
		for _, role := range dashboard.Roles {
			ref := s.Datasets[role]
			if ref == nil {
				fmt.Fprintf(out, "- %s: (missing)\n", role)
				continue
			}
			sheet := ""
			if ref.SheetName != "" {
				sheet = fmt.Sprintf(" [sheet %s]", ref.SheetName)
			} else if ref.SheetIndex > 0 {
				sheet = fmt.Sprintf(" [sheet #%d]", ref.SheetIndex)
			}
			fmt.Fprintf(out, "- %s: %s%s\n", role, ref.Path, sheet)
		}
		return nil
	},
}

func listAllStudies(out io.Writer) error {
	root, err := defaultStudiesDir()
	if err != nil {
		return err
	}
	dirs, err := os.ReadDir(root)
	if err != nil {
		return err
	}
	found := false
	for _, e := range dirs {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(root, e.Name(), study.FileName)); err == nil {
			fmt.Fprintf(out, "- %s\n", e.Name())
			found = true
		}
	}
	if !found {
		fmt.Fprintln(out, "(no studies)")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listStudies, "studies", false, "list studies")
	listCmd.Flags().BoolVar(&listDatasets, "datasets", false, "list datasets in a study")
	listCmd.Flags().StringVarP(&listStudyName, "study", "s", "", "study name for --datasets")
}
