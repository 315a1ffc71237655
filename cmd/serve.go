package cmd

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/NomelN/Ivoire-cine/cache"
	"github.com/NomelN/Ivoire-cine/radarr"
	"github.com/NomelN/Ivoire-cine/validate"
	"github.com/NomelN/Ivoire-cine/web"
)

var listenAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long:  `Start the Ivoire Ciné web server and serve pages until interrupted.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&listenAddr, "addr", "a", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if listenAddr != "" {
		cfg.Server.Addr = listenAddr
	}

	opts := []web.Option{
		web.WithLimits(validate.Limits{
			MaxPage:        cfg.Limits.MaxPage,
			MaxQueryLength: cfg.Limits.MaxQueryLength,
			MaxGenreID:     cfg.Limits.MaxGenreID,
		}),
		web.WithImageBaseURL(cfg.TMDB.ImageBaseURL),
		web.WithStaticDir(cfg.Server.StaticDir),
		web.WithMinifiedAssets(cfg.IsProduction()),
	}

	// Radarr is optional: the site works without it
	if cfg.Radarr.Enabled {
		radarrClient, err := radarr.NewClient(cfg.Radarr.URL, cfg.Radarr.APIKey, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to create Radarr client, continuing without library status")
		} else {
			opts = append(opts, web.WithLibrary(radarrClient))
			logger.Info().Str("url", cfg.Radarr.URL).Msg("Radarr integration enabled")
		}
	}

	site, err := web.NewServer(tmdbClient, logger, opts...)
	if err != nil {
		return fmt.Errorf("failed to create web server: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           site.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ErrorLog:          stdlog.New(logger, "", 0),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().
			Str("addr", cfg.Server.Addr).
			Str("environment", cfg.Environment).
			Msg("Starting Ivoire Ciné")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.Cache.PruneInterval > 0 {
		g.Go(func() error {
			pruneCache(gctx, responses, cfg.Cache.PruneInterval)
			return nil
		})
	}

	return g.Wait()
}

// pruneCache drops expired responses until ctx is done
func pruneCache(ctx context.Context, c *cache.Cache, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := c.Prune(); removed > 0 {
				logger.Debug().
					Int("removed", removed).
					Int("remaining", c.Len()).
					Msg("Pruned expired responses")
			}
		}
	}
}
