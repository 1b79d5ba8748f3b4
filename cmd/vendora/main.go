package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	chromem "github.com/philippgille/chromem-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vendora/vendora/assistant"
	"github.com/vendora/vendora/insights"
	"github.com/vendora/vendora/plugin/llm"
	"github.com/vendora/vendora/plugin/productindex"
	"github.com/vendora/vendora/server/profile"
	apiv1 "github.com/vendora/vendora/server/router/api/v1"
	"github.com/vendora/vendora/store"
	"github.com/vendora/vendora/store/db/mysql"
	"github.com/vendora/vendora/store/db/sqlite"
)

const embeddingModel = "openai/text-embedding-3-small"

var rootCmd = &cobra.Command{
	Use:   "vendora",
	Short: "Merchant store server with an AI assistant and BI dashboard",
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := profile.FromViper(viper.GetViper())
		if err != nil {
			return err
		}
		return serve(cmd.Context(), p)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("addr", ":8081", "listen address")
	flags.String("driver", "sqlite", "database driver (sqlite|mysql)")
	flags.String("dsn", "", "database connection string")
	flags.String("data", "./data", "directory for local state")
	flags.String("openrouter-api-key", "", "OpenRouter API key (enables the assistant)")
	flags.String("ai-model", "openai/gpt-4o-mini", "model slug sent to OpenRouter")

	if err := viper.BindPFlags(flags); err != nil {
		panic(err)
	}
	viper.SetEnvPrefix("vendora")
	viper.AutomaticEnv()
}

func serve(ctx context.Context, p *profile.Profile) error {
	if err := os.MkdirAll(p.Data, 0750); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	driver, err := openDriver(p)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	st := store.New(driver)
	defer st.Close()
	if err := st.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	var idx *productindex.Index
	if p.OpenRouterAPIKey != "" {
		embedFn := chromem.NewEmbeddingFuncOpenAICompat(
			"https://openrouter.ai/api/v1", p.OpenRouterAPIKey, embeddingModel, nil)
		idx, err = productindex.New(p.Data, embedFn)
		if err != nil {
			slog.Warn("product index disabled", "err", err)
		}
	}

	eng := insights.NewEngine(st)
	reg := assistant.NewRegistry()
	assistant.Catalogue(reg, st, eng, idx)
	client := llm.New(p.OpenRouterAPIKey, "")

	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLogger())
	apiv1.NewAPIV1Service(p, st, eng, reg, idx, client).Register(e)

	srv := &http.Server{Addr: p.Addr, Handler: e}
	go func() {
		slog.Info("server started", "addr", p.Addr, "driver", p.Driver, "tools", len(reg.Names()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server stopped", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-stop:
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openDriver(p *profile.Profile) (store.Driver, error) {
	switch p.Driver {
	case "sqlite":
		dsn := p.DSN
		if dsn == "" {
			dsn = filepath.Join(p.Data, "vendora.db")
		}
		return sqlite.New(dsn)
	case "mysql":
		return mysql.New(p.DSN)
	default:
		return nil, fmt.Errorf("unsupported driver %q", p.Driver)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
