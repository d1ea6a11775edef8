package cmd

import (
	"fmt"
	"sort"

	cfgpkg "github.com/KaramelBytes/voltrack-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set voltrack configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		out := cmd.OutOrStdout()
		if cfg.ReferenceYear > 0 {
			fmt.Fprintf(out, "reference_year: %d\n", cfg.ReferenceYear)
		} else {
			fmt.Fprintln(out, "reference_year: (current year)")
		}
		fmt.Fprintf(out, "collapse_threshold: %d\n", cfg.CollapseThreshold)
		fmt.Fprintf(out, "encode_ordinals: %t\n", cfg.EncodeOrdinals)
		fmt.Fprintf(out, "date_order: %s\n", cfg.DateOrder)
		if cfg.MaxRows > 0 {
			fmt.Fprintf(out, "max_rows: %d\n", cfg.MaxRows)
		}
		if cfg.Delimiter != "" {
			fmt.Fprintf(out, "delimiter: %q\n", cfg.Delimiter)
		}
		fmt.Fprintf(out, "studies_dir: %s\n", cfg.StudiesDir)
		fmt.Fprintf(out, "server_addr: %s\n", cfg.ServerAddr)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "log_format: %s\n", cfg.LogFormat)
		for _, k := range cfg.Columns.Keys() {
			p, _ := cfg.Columns.Field(k)
			fmt.Fprintf(out, "columns.%s: %s\n", k, *p)
		}
		if len(cfg.AlcoholScale) > 0 {
			answers := make([]string, 0, len(cfg.AlcoholScale))
			for a := range cfg.AlcoholScale {
				answers = append(answers, a)
			}
			sort.Strings(answers)
			for _, a := range answers {
				fmt.Fprintf(out, "alcohol_scale.%s: %d\n", a, cfg.AlcoholScale[a])
			}
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		if err := cfg.Set(key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List settable keys",
	Run: func(cmd *cobra.Command, args []string) {
		for _, k := range cfgpkg.Keys() {
			fmt.Fprintln(cmd.OutOrStdout(), k)
		}
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configKeysCmd)
}
