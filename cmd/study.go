package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/voltrack-cli/internal/dashboard"
	"github.com/spf13/cobra"
)

var (
	scStudy string
)

var studyCmd = &cobra.Command{
	Use:   "study",
	Short: "Inspect a study",
}

var studyCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Load every dataset of a study and report missing columns",
	RunE: func(cmd *cobra.Command, args []string) error {
		if scStudy == "" {
			return fmt.Errorf("--study is required")
		}
		c := currentConfig()
		s, err := resolveStudy(scStudy)
		if err != nil {
			return err
		}
		lo, err := loadOptions(c, cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		ds, warns := s.LoadTables(lo)
		for _, w := range warns {
			fmt.Fprintf(out, "✗ %s: %s\n", w.Dataset, w.Message)
		}
		for _, role := range s.Missing() {
			fmt.Fprintf(out, "⚠ %s: no file attached\n", role)
		}
		problems := len(warns)
		cols := c.Columns
		for _, role := range dashboard.Roles {
			tbl := ds.ByRole(role)
			if tbl == nil {
				continue
			}
			var absent []string
			for _, key := range dashboard.ForRole(role) {
				label, _ := cols.Field(key)
				if !tbl.Has(*label) {
					absent = append(absent, fmt.Sprintf("%s (%q)", key, *label))
				}
			}
			if len(absent) == 0 {
				fmt.Fprintf(out, "✓ %s: %d rows, all columns present\n", role, tbl.Len())
				continue
			}
			problems++
			fmt.Fprintf(out, "⚠ %s: %d rows, missing %s\n", role, tbl.Len(), strings.Join(absent, ", "))
		}
		if problems > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "%d dataset(s) need attention; affected metrics will be skipped\n", problems)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(studyCmd)
	studyCmd.AddCommand(studyCheckCmd)

	studyCheckCmd.Flags().StringVarP(&scStudy, "study", "s", "", "study name or directory")
	studyCheckCmd.Flags().StringVar(&repDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (auto-detect if omitted)")
	studyCheckCmd.Flags().IntVar(&repMaxRows, "max-rows", 0, "maximum rows read per dataset (0 = unlimited)")
	studyCheckCmd.Flags().StringVar(&repSheetName, "sheet-name", "", "XLSX: sheet name to read")
	studyCheckCmd.Flags().IntVar(&repSheetIndex, "sheet-index", 0, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}
