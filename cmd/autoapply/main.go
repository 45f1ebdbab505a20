package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/Affan1415/auto-apply/internal/answer"
	"github.com/Affan1415/auto-apply/internal/config"
	"github.com/Affan1415/auto-apply/internal/events"
	"github.com/Affan1415/auto-apply/internal/httpapi"
	"github.com/Affan1415/auto-apply/internal/run"
	"github.com/Affan1415/auto-apply/internal/scheduler"
	"github.com/Affan1415/auto-apply/internal/secrets"
	"github.com/Affan1415/auto-apply/internal/store"
)

func usage() {
	fmt.Fprintf(os.Stderr, `autoapply - automated job application engine

Usage:
  autoapply run [-user ID]    execute one pass and exit
  autoapply serve             run on a schedule with a local status API
`)
	os.Exit(2)
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmsgprefix)

	// .env is optional; real env always wins
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
	}

	switch os.Args[1] {
	case "run":
		fs := flag.NewFlagSet("run", flag.ExitOnError)
		userID := fs.String("user", "", "limit the pass to a single user id")
		_ = fs.Parse(os.Args[2:])
		cmdRun(*userID)
	case "serve":
		cmdServe()
	default:
		usage()
	}
}

func bootstrap() (config.Config, *store.Store, *run.Coordinator, *events.Hub) {
	dataDir := os.Getenv("AUTOAPPLY_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	cfg, err := config.Load(userCfgPath)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfg = config.ApplyEnv(cfg)
	cfg, v := config.NormalizeAndValidate(cfg)
	for _, w := range v.Warnings {
		log.Printf("[config] warning: %s", w)
	}
	if !v.OK() {
		for _, e := range v.Errors {
			log.Printf("[config] error: %s", e)
		}
		log.Fatalf("config invalid (%s)", userCfgPath)
	}
	cfg.App.DataDir = dataDir

	st, err := store.Open(filepath.Join(dataDir, "autoapply.db"))
	if err != nil {
		log.Fatalf("open store: %v", err)
	}

	apiKey, err := secrets.GeminiAPIKey(cfg.Gemini.KeyringAccount)
	if err != nil {
		log.Fatalf("gemini api key: %v", err)
	}
	gen, err := answer.NewGemini(context.Background(), apiKey, cfg.Gemini.Model,
		time.Duration(cfg.Gemini.TimeoutSeconds)*time.Second)
	if err != nil {
		log.Fatalf("gemini init: %v", err)
	}

	hub := events.NewHub()
	coord := run.New(cfg, st, gen, hub)
	return cfg, st, coord, hub
}

func cmdRun(userID string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, st, coord, _ := bootstrap()
	defer st.Close()

	// a termination signal mid-pass is a clean stop, not a failure
	if err := coord.RunOnce(ctx, userID); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("[run] %v", err)
	}
}

func cmdServe() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, st, coord, hub := bootstrap()
	defer st.Close()

	g, ctx := errgroup.WithContext(ctx)

	// manual runs share the serve context so shutdown cancels them, and are
	// joined before exit so their browser sessions get closed
	var manualRuns sync.WaitGroup
	mux := httpapi.NewMux(httpapi.Deps{
		Coordinator: coord,
		Hub:         hub,
		TriggerRun: func(userID string) error {
			if coord.Status().Running {
				return run.ErrRunActive
			}
			manualRuns.Add(1)
			go func() {
				defer manualRuns.Done()
				err := coord.RunOnce(ctx, userID)
				if err != nil && !errors.Is(err, run.ErrRunActive) && !errors.Is(err, context.Canceled) {
					log.Printf("[serve] manual run: %v", err)
				}
			}()
			return nil
		},
		RecentAttempts: st.RecentAttempts,
	})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("[serve] listening on http://%s", addr)

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		interval := time.Duration(cfg.Run.IntervalSeconds) * time.Second
		scheduler.Every(ctx, interval, "schedule", func(ctx context.Context) error {
			err := coord.RunOnce(ctx, "")
			if errors.Is(err, run.ErrRunActive) {
				return nil
			}
			return err
		})
		return nil
	})
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	werr := g.Wait()
	manualRuns.Wait()
	if werr != nil {
		log.Fatalf("[serve] %v", werr)
	}
	log.Printf("[serve] stopped")
}
