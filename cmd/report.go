package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	cfgpkg "github.com/KaramelBytes/voltrack-cli/internal/config"
	"github.com/KaramelBytes/voltrack-cli/internal/dashboard"
	"github.com/KaramelBytes/voltrack-cli/internal/logging"
	"github.com/KaramelBytes/voltrack-cli/internal/stats"
	"github.com/KaramelBytes/voltrack-cli/internal/table"
	"github.com/KaramelBytes/voltrack-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	repStudy          string
	repFiles          = map[string]*string{}
	repFormat         string
	repOutputPath     string
	repReferenceYear  int
	repCollapse       int
	repEncodeOrdinals bool
	repDateOrder      string
	repDelimiter      string
	repMaxRows        int
	repSheetName      string
	repSheetIndex     int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Compute the dashboard from a study or from dataset files",
	Example: `  voltrack report --study pilot --format text
  voltrack report --accidents accidents.xlsx --individuals individus.csv --format json -o dash.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := currentConfig()
		now := time.Now()

		lo, err := loadOptions(c, cmd)
		if err != nil {
			return err
		}
		ds, warns, err := collectDatasets(lo)
		if err != nil {
			return err
		}

		opt := c.Options(now)
		if cmd.Flags().Changed("reference-year") {
			if repReferenceYear <= 0 {
				return fmt.Errorf("invalid --reference-year: %d", repReferenceYear)
			}
			opt.ReferenceYear = repReferenceYear
		}
		if cmd.Flags().Changed("collapse-threshold") {
			opt.CollapseThreshold = repCollapse
		}
		if cmd.Flags().Changed("encode-ordinals") {
			opt.EncodeOrdinals = repEncodeOrdinals
		}
		if cmd.Flags().Changed("date-order") {
			order, err := stats.ParseDateOrder(repDateOrder)
			if err != nil {
				return err
			}
			opt.DateOrder = order
		}

		d := dashboard.Build(ds, opt, c.Columns)
		d.Warnings = append(warns, d.Warnings...)
		if len(d.Warnings) > 0 {
			logging.Warn().Int("count", len(d.Warnings)).Msg("some metrics were skipped")
		}

		var buf bytes.Buffer
		if err := d.Render(&buf, repFormat); err != nil {
			return err
		}
		if repOutputPath != "" {
			if err := utils.WriteFileAtomic(repOutputPath, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote dashboard to %s\n", repOutputPath)
			return nil
		}
		_, err = cmd.OutOrStdout().Write(buf.Bytes())
		return err
	},
}

func loadOptions(c *cfgpkg.Global, cmd *cobra.Command) (table.LoadOptions, error) {
	lo := table.LoadOptions{MaxRows: c.MaxRows, SheetName: repSheetName, SheetIndex: repSheetIndex}
	d, err := c.DelimiterRune()
	if err != nil {
		return lo, err
	}
	lo.Delimiter = d
	if cmd.Flags().Changed("delimiter") {
		d, err := cfgpkg.ParseDelimiter(repDelimiter)
		if err != nil {
			return lo, fmt.Errorf("unsupported --delimiter: %w", err)
		}
		lo.Delimiter = d
	}
	if cmd.Flags().Changed("max-rows") {
		lo.MaxRows = repMaxRows
	}
	return lo, nil
}

// collectDatasets reads the study named by --study, then lets per-role file
// flags replace individual datasets.
func collectDatasets(lo table.LoadOptions) (dashboard.Datasets, []dashboard.Warning, error) {
	var ds dashboard.Datasets
	var warns []dashboard.Warning
	found := false
	if repStudy != "" {
		s, err := resolveStudy(repStudy)
		if err != nil {
			return ds, nil, err
		}
		ds, warns = s.LoadTables(lo)
		found = true
	}
	for _, role := range dashboard.Roles {
		path := strings.TrimSpace(*repFiles[role])
		if path == "" {
			continue
		}
		found = true
		tbl, err := table.Load(path, lo)
		if err != nil {
			warns = append(warns, dashboard.Warning{Code: dashboard.CodeLoadFailed, Dataset: role, Message: err.Error()})
			continue
		}
		tbl.Name = role
		switch role {
		case dashboard.RoleRegistrations:
			ds.Registrations = tbl
		case dashboard.RoleHouseholds:
			ds.Households = tbl
		case dashboard.RoleIndividuals:
			ds.Individuals = tbl
		case dashboard.RoleAccidents:
			ds.Accidents = tbl
		}
	}
	if !found {
		return ds, nil, errors.New("provide --study or at least one dataset file (--" + strings.Join(dashboard.Roles, ", --") + ")")
	}
	return ds, warns, nil
}

func init() {
	rootCmd.AddCommand(reportCmd)
	f := reportCmd.Flags()
	f.StringVarP(&repStudy, "study", "s", "", "study name or directory")
	for _, role := range dashboard.Roles {
		repFiles[role] = f.String(role, "", role+" dataset file (CSV/TSV/XLSX)")
	}
	f.StringVarP(&repFormat, "format", "f", dashboard.FormatMarkdown, "output format: "+strings.Join(dashboard.Formats, "|"))
	f.StringVarP(&repOutputPath, "output", "o", "", "optional path to write the dashboard")
	f.IntVar(&repReferenceYear, "reference-year", 0, "year used to derive ages (default: config or current year)")
	f.IntVar(&repCollapse, "collapse-threshold", 0, "merge accident types seen fewer times into Other (<= 0 disables)")
	f.BoolVar(&repEncodeOrdinals, "encode-ordinals", false, "report alcohol frequency as ordinal codes")
	f.StringVar(&repDateOrder, "date-order", "", "read ambiguous slash dates as day_first or month_first")
	f.StringVar(&repDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (auto-detect if omitted)")
	f.IntVar(&repMaxRows, "max-rows", 0, "maximum rows read per dataset (0 = unlimited)")
	f.StringVar(&repSheetName, "sheet-name", "", "XLSX: sheet name to read")
	f.IntVar(&repSheetIndex, "sheet-index", 0, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
}
