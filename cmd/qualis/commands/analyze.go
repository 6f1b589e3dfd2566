package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/qualis/internal/contracts"
	"github.com/wonny/qualis/internal/render"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [TICKER]",
	Short: "기업 품질 분석 실행",
	Long: `한 기업의 다년간 재무제표를 분석하고 품질 리포트를 출력합니다.

이 명령어는:
- 티커 지정 시 저장된 데이터 또는 provider에서 재무제표 로드
- --file 지정 시 로컬 JSON 파일에서 재무제표 로드 (오프라인)
- 7개 카테고리 점수, 종합 점수, 레드 플래그 산출
- DB가 설정되어 있으면 리포트 저장

Example:
  go run ./cmd/qualis analyze RELIANCE
  go run ./cmd/qualis analyze RELIANCE --refresh
  go run ./cmd/qualis analyze --file financials.json --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

var (
	analyzeFile    string
	analyzeRefresh bool
	analyzeJSON    bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeFile, "file", "", "재무제표 JSON 파일 경로")
	analyzeCmd.Flags().BoolVar(&analyzeRefresh, "refresh", false, "저장된 데이터 대신 provider에서 새로 수집")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "리포트를 JSON으로 출력")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analyzeFile == "" && len(args) == 0 {
		return fmt.Errorf("either a TICKER argument or --file is required")
	}

	rt, err := newRuntime(false)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var report *contracts.QualityReport
	if analyzeFile != "" {
		m, err := loadFinancialsFile(analyzeFile)
		if err != nil {
			return err
		}
		if err := m.Validate(); err != nil {
			return err
		}
		report, err = rt.analysis.AnalyzeSeries(ctx, m)
		if err != nil {
			return err
		}
	} else {
		ticker := strings.ToUpper(args[0])
		report, err = rt.analysis.AnalyzeTicker(ctx, ticker, analyzeRefresh)
		if err != nil {
			return err
		}
	}

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Print(render.Text(report))
	return nil
}

// loadFinancialsFile reads a MultiYearFinancials JSON document.
func loadFinancialsFile(path string) (*contracts.MultiYearFinancials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var m contracts.MultiYearFinancials
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &m, nil
}
