package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/KaramelBytes/voltrack-cli/internal/server"
	"github.com/spf13/cobra"
)

var (
	serveStudy string
	serveAddr  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard of a study as JSON over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveStudy == "" {
			return fmt.Errorf("--study is required")
		}
		c := currentConfig()
		s, err := resolveStudy(serveStudy)
		if err != nil {
			return err
		}
		if missing := s.Missing(); len(missing) > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: study %s has no file for: %v\n", s.Name, missing)
		}
		lo, err := loadOptions(c, cmd)
		if err != nil {
			return err
		}
		addr := c.ServerAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		srv := server.New(server.Config{
			Study:   s,
			Load:    lo,
			Options: c.Options(time.Now()),
			Columns: c.Columns,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Serving study %s on %s\n", s.Name, addr)
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveStudy, "study", "s", "", "study name or directory")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, :8080)")
}
