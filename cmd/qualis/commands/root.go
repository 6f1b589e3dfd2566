package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "qualis",
	Short: "Qualis - 재무제표 기반 기업 품질 스코어링 엔진",
	Long: `Qualis Unified CLI

다년간 재무제표에서 12개 파생 비율을 계산하고, 7개 카테고리 가중
점수로 0-10 품질 점수와 등급, 리스크 신호를 산출합니다.

Usage:
  go run ./cmd/qualis [command]

Examples:
  go run ./cmd/qualis analyze RELIANCE
  go run ./cmd/qualis analyze --file financials.json
  go run ./cmd/qualis api
  go run ./cmd/qualis scheduler start
  go run ./cmd/qualis test-db`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
