package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/qualis/internal/store"
	"github.com/wonny/qualis/pkg/config"
	"github.com/wonny/qualis/pkg/database"
)

// testDBCmd represents the test-db command
var testDBCmd = &cobra.Command{
	Use:   "test-db",
	Short: "PostgreSQL 연결 테스트",
	Long: `데이터베이스 연결과 Qualis 스키마를 점검합니다.

- DATABASE_URL 로드 및 연결
- Ping / Health Check
- financials, quality_reports 스키마 확인
- 저장된 종목 수 표시

Example:
  go run ./cmd/qualis test-db --env production`,
	RunE: runTestDB,
}

func init() {
	rootCmd.AddCommand(testDBCmd)
}

func runTestDB(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Qualis Database Connection Test ===")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("❌ Failed to load config: %w", err)
	}
	fmt.Printf("✅ Config loaded (ENV: %s)\n", cfg.Env)
	fmt.Printf("   Database URL: %s\n\n", maskPassword(cfg.Database.URL))

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("❌ Failed to connect to database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	status, err := db.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("❌ Health check failed: %w", err)
	}
	fmt.Printf("✅ Connected (response time %v, %d/%d conns in use)\n",
		status.ResponseTime, status.Stats.AcquiredConns, status.Stats.MaxConns)

	fmt.Println("Ensuring Qualis schema...")
	if err := store.EnsureSchema(ctx, db.Pool); err != nil {
		return fmt.Errorf("❌ Schema setup failed: %w", err)
	}
	fmt.Println("✅ Schema ready (financials, quality_reports)")

	tickers, err := store.NewFinancialsRepository(db.Pool).ListTickers(ctx)
	if err != nil {
		return fmt.Errorf("❌ Failed to list tickers: %w", err)
	}
	fmt.Printf("✅ %d ticker(s) with stored financials\n", len(tickers))

	fmt.Println("\n✅ All tests passed!")
	return nil
}

// maskPassword masks the password in the database URL for display
func maskPassword(url string) string {
	if len(url) < 55 {
		if len(url) < 30 {
			return "***"
		}
		return url[:30] + "***"
	}
	return url[:30] + "***" + url[len(url)-25:]
}
