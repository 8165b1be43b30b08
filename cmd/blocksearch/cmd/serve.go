package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/jonwraymond/toolboxsearch/registry"
)

const shutdownTimeout = 5 * time.Second

type serveOptions struct {
	httpAddr string
	watch    bool
	debounce time.Duration
	rate     float64
	burst    int
}

func newServeCmd(root *rootOptions) *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve block search over MCP",
		Long: `Serve the search_blocks, rank_blocks and describe_block tools over MCP.

Requests are read as newline-delimited JSON-RPC on stdin unless --http is
given. With --watch, the definition and toolbox files are re-read when
they change on disk.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.httpAddr == "" {
				opts.httpAddr = root.cfg.Server.HTTP
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.httpAddr, "http", "", "Listen address for MCP over HTTP (default: stdio)")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Reload when definition or toolbox files change")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", 200*time.Millisecond, "Quiet period before a reload")
	cmd.Flags().Float64Var(&opts.rate, "rate", 0, "Maximum HTTP requests per second (0 = unlimited)")
	cmd.Flags().IntVar(&opts.burst, "burst", 20, "HTTP request burst allowed above --rate")
	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, root *rootOptions, opts serveOptions) error {
	reg, err := buildRegistry(ctx, root.cfg, root.logger)
	if err != nil {
		return err
	}
	live := newLiveRegistry(reg)
	defer func() { _ = live.Close() }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if opts.watch {
		paths := append(append([]string{}, root.cfg.Definitions...), root.cfg.Toolboxes...)
		if len(paths) == 0 {
			root.logger.Warn("--watch given but no files to watch")
		} else {
			g.Go(func() error {
				return watchFiles(gctx, paths, opts.debounce, root.logger, func() {
					next, err := buildRegistry(gctx, root.cfg, root.logger)
					if err != nil {
						root.logger.Warn("reload failed, keeping previous index", slog.String("error", err.Error()))
						return
					}
					live.swap(next)
					root.logger.Info("reloaded", slog.Int("blocks", next.Stats().Blocks))
				})
			})
		}
	}

	if opts.httpAddr != "" {
		handler := registry.ServeHTTP(live)
		if opts.rate > 0 {
			handler = rateLimited(handler, rate.NewLimiter(rate.Limit(opts.rate), max(opts.burst, 1)))
		}
		srv := &http.Server{
			Addr:              opts.httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}
		g.Go(func() error {
			root.logger.Info("serving MCP over HTTP", slog.String("addr", opts.httpAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
			defer done()
			return srv.Shutdown(shutdownCtx)
		})
	} else {
		g.Go(func() error {
			// End of input ends the session.
			defer cancel()
			root.logger.Info("serving MCP over stdio")
			return registry.ServeStdio(gctx, live, cmd.InOrStdin(), cmd.OutOrStdout())
		})
	}

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// rateLimited rejects requests above the limiter's rate with 429.
func rateLimited(next http.Handler, limiter *rate.Limiter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// liveRegistry serves requests from a registry that can be replaced while
// running. A replaced registry is closed once no request is using it.
type liveRegistry struct {
	mu  sync.RWMutex
	reg *registry.Registry
}

func newLiveRegistry(reg *registry.Registry) *liveRegistry {
	return &liveRegistry{reg: reg}
}

// HandleRequest implements registry.RequestHandler.
func (l *liveRegistry) HandleRequest(ctx context.Context, req registry.MCPRequest) registry.MCPResponse {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.reg.HandleRequest(ctx, req)
}

func (l *liveRegistry) swap(next *registry.Registry) {
	l.mu.Lock()
	prev := l.reg
	l.reg = next
	l.mu.Unlock()
	_ = prev.Close()
}

func (l *liveRegistry) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reg.Close()
}
