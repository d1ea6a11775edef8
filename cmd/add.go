package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/voltrack-cli/internal/dashboard"
	"github.com/spf13/cobra"
)

var (
	addStudyName  string
	addRole       string
	addSheetName  string
	addSheetIndex int
)

var addCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Attach a dataset file to a study role",
	Long: "Attach a CSV, TSV or XLSX file to one of the study roles: " +
		strings.Join(dashboard.Roles, ", ") + ". Attaching again replaces the previous file.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		if addStudyName == "" {
			return fmt.Errorf("--study is required")
		}
		if addRole == "" {
			return fmt.Errorf("--role is required")
		}
		s, err := resolveStudy(addStudyName)
		if err != nil {
			return err
		}
		ref, err := s.Attach(addRole, file, addSheetName, addSheetIndex)
		if err != nil {
			return err
		}
		if err := s.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Dataset added: %s as %s\n", filepath.Base(file), ref.Role)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addStudyName, "study", "s", "", "study name")
	addCmd.Flags().StringVarP(&addRole, "role", "r", "", "dataset role: "+strings.Join(dashboard.Roles, "|"))
	addCmd.Flags().StringVar(&addSheetName, "sheet-name", "", "XLSX: sheet name to read")
	addCmd.Flags().IntVar(&addSheetIndex, "sheet-index", 0, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}
