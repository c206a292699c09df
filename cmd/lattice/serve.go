package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/internal/config"
	"github.com/aretw0/lattice/internal/logging"
	httpAdapter "github.com/aretw0/lattice/pkg/adapters/http"
	redisAdapter "github.com/aretw0/lattice/pkg/adapters/redis"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/aretw0/lattice/pkg/registry"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the concept protocol server",
	Long:  `Starts the Lattice runtime in server mode, exposing /invoke, /query and /health over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		// Flags override file values.
		if cmd.Flags().Changed("host") {
			cfg.Host, _ = cmd.Flags().GetString("host")
		}
		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetString("port")
		}
		if cmd.Flags().Changed("backend") {
			cfg.Backend, _ = cmd.Flags().GetString("backend")
		}
		if cmd.Flags().Changed("redis") {
			cfg.Redis.Addr, _ = cmd.Flags().GetString("redis")
		}

		logger := logging.New(slog.LevelInfo)
		rt := lattice.New(
			lattice.WithAddr(cfg.Addr()),
			lattice.WithBackend(httpAdapter.BackendKind(cfg.Backend)),
			lattice.WithLogger(logger),
		)

		if echo, _ := cmd.Flags().GetBool("echo"); echo {
			registerEcho(rt, cfg)
		}

		// Blocking serve; released by SIGINT/SIGTERM.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Starting Lattice Server on %s (%s backend)\n", cfg.Addr(), cfg.Backend)
		if err := rt.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		fmt.Println("Lattice Server stopped gracefully")
		return nil
	},
}

// registerEcho binds the built-in smoke-test concept. With a Redis address
// configured, its relations persist there instead of in memory.
func registerEcho(rt *lattice.Runtime, cfg config.Config) {
	handler := ports.ActionMap{
		"echo": ports.ActionFunc(func(ctx context.Context, input map[string]any, st ports.Storage) (map[string]any, error) {
			return map[string]any{"variant": "ok", "message": input["message"]}, nil
		}),
		"save": ports.ActionFunc(func(ctx context.Context, input map[string]any, st ports.Storage) (map[string]any, error) {
			key, _ := input["key"].(string)
			if key == "" {
				return map[string]any{"variant": "error", "message": "input.key is required"}, nil
			}
			if err := st.Put(ctx, "messages", key, input); err != nil {
				return nil, err
			}
			return map[string]any{"variant": "ok", "key": key}, nil
		}),
	}

	var opts []registry.Option
	if cfg.Redis.Addr != "" {
		opts = append(opts, registry.WithStorage(
			redisAdapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)))
	}
	rt.Register("urn:lattice/Echo", handler, opts...)
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("host", "", "Host to bind (default: all interfaces)")
	serveCmd.Flags().StringP("port", "p", config.DefaultPort, "Port to listen on")
	serveCmd.Flags().String("backend", "concurrent", "Server backend: concurrent or serial")
	serveCmd.Flags().String("redis", "", "Redis address for built-in concept storage")
	serveCmd.Flags().Bool("echo", true, "Register the built-in urn:lattice/Echo concept")
}
