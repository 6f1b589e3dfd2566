package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/qualis/internal/api"
	"github.com/wonny/qualis/internal/api/handlers"
	"github.com/wonny/qualis/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- 분석 실행 및 리포트 조회 엔드포인트 제공
- 완료된 리포트를 websocket으로 스트리밍

Endpoints:
  GET  /health                        - Health check
  POST /api/analyze                   - 분석 실행
  GET  /api/reports/{ticker}          - 최신 리포트 조회
  GET  /api/reports/{ticker}/history  - 리포트 이력 조회
  GET  /ws                            - 리포트 스트림

Example:
  go run ./cmd/qualis api
  go run ./cmd/qualis api --port 8091`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: 설정값)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Qualis API Server ===")

	rt, err := newRuntime(true)
	if err != nil {
		return err
	}
	defer rt.Close()

	if apiPort != "" {
		rt.cfg.Port = apiPort
	}

	log := rt.log
	log.WithFields(map[string]interface{}{
		"port": rt.cfg.Port,
		"env":  rt.cfg.Env,
	}).Info("Initializing API server")

	// Completed reports fan out to websocket subscribers.
	hub := api.NewHub(log)
	rt.analysis.SetNotifier(hub)

	var limiter *redis.RateLimiter
	if rt.rdb != nil && rt.rdb.Enabled() {
		limiter = redis.NewRateLimiter(rt.rdb, "qualis")
	}
	analysisHandler := handlers.NewAnalysisHandler(rt.analysis, rt.reports, limiter, log)
	router := api.NewRouter(analysisHandler, hub, log)
	server := api.New(rt.cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", rt.cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  POST /api/analyze")
	fmt.Println("  GET  /api/reports/{ticker}")
	fmt.Println("  GET  /api/reports/{ticker}/history")
	fmt.Println("  GET  /ws")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
