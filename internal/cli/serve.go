package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/pathforge/pathforge/internal/server"
	"github.com/pathforge/pathforge/pkg/pipeline"
	"github.com/pathforge/pathforge/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr     string // listen address
	mongoURI string // Mongo connection string (empty = in-memory store)
	noCache  bool   // disable result caching
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the pathway build HTTP service",
		Long: `Run an HTTP service exposing the build pipeline.

Built pathways are persisted to MongoDB when --mongo-uri (or the config
file's server.mongo_uri) is set, and to an in-memory store otherwise.

Examples:
  pathforge serve
  pathforge serve --addr :9000 --mongo-uri mongodb://localhost:27017`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "", "MongoDB connection string")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable result caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	cfg := c.loadConfig()

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	var st store.Store
	mongoURI := opts.mongoURI
	if mongoURI == "" {
		mongoURI = cfg.Server.MongoURI
	}
	if mongoURI != "" {
		ms, err := store.NewMongoStore(ctx, store.MongoConfig{
			URI:      mongoURI,
			Database: cfg.Server.MongoDatabase,
		})
		if err != nil {
			return err
		}
		st = ms
		c.Logger.Info("using mongo store", "database", cfg.Server.MongoDatabase)
	} else {
		st = store.NewMemoryStore()
		c.Logger.Info("using in-memory store")
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(closeCtx); err != nil {
			c.Logger.Warn("store close failed", "error", err)
		}
	}()

	addr := opts.addr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	srv, err := server.New(server.Options{
		Addr:   addr,
		Runner: runner,
		Store:  st,
		Pipeline: pipeline.Options{
			Concurrency: cfg.Naming.Concurrency,
			CallTimeout: time.Duration(cfg.Naming.CallTimeoutSeconds) * time.Second,
			Namer:       c.newNamer(runner),
			Logger:      c.Logger,
		},
		Logger: c.Logger,
	})
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
