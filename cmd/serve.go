package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/legistyr/termbench/internal/server"
)

var (
	servePort     int
	serveAllowAll bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local artifact and history server",
	Long: `Starts an HTTP server exposing run history as JSON plus the artifact and
report directories as static files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, db, err := openHistory(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		srv := server.New(server.Config{
			Port:      servePort,
			CSVDir:    cfg.CSVDir,
			TXTDir:    cfg.TXTDir,
			ReportDir: cfg.ReportDir,
			AllowAll:  serveAllowAll,
		}, store)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "termbench server v%s starting on port %d\n", Version, servePort)
		fmt.Fprintf(os.Stderr, "  History:   %s\n", cfg.HistoryPath)
		fmt.Fprintf(os.Stderr, "  Artifacts: %s, %s\n", cfg.CSVDir, cfg.TXTDir)
		fmt.Fprintf(os.Stderr, "  Reports:   %s\n", cfg.ReportDir)

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().BoolVar(&serveAllowAll, "allow-all-origins", false, "allow CORS from any origin")
	rootCmd.AddCommand(serveCmd)
}
