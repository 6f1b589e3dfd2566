package commands

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/qualis/internal/scheduler"
	"github.com/wonny/qualis/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `스케줄러를 시작하거나 작업을 관리합니다.

등록되는 작업:
- report_refresh: 추적 티커 전체 재수집 및 재분석 (REFRESH_CRON, 기본 매일 02시)

Subcommands:
  start   - 스케줄러 데몬 시작
  run     - 등록된 작업 즉시 1회 실행

Example:
  go run ./cmd/qualis scheduler start
  go run ./cmd/qualis scheduler run report_refresh`,
}

var schedulerStartCmd = &cobra.Command{
	Use:   "start",
	Short: "스케줄러 시작",
	RunE:  runSchedulerStart,
}

var schedulerRunCmd = &cobra.Command{
	Use:   "run [JOB]",
	Short: "작업 즉시 실행",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchedulerRun,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

// buildScheduler wires the scheduler with every registered job.
func buildScheduler(rt *runtime) (*scheduler.Scheduler, error) {
	sched := scheduler.New(rt.log)

	refreshJob := jobs.NewRefreshJob(rt.analysis, rt.cfg, rt.log)
	if err := sched.AddJob(refreshJob); err != nil {
		return nil, err
	}

	return sched, nil
}

func runSchedulerStart(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Qualis Scheduler ===")

	rt, err := newRuntime(true)
	if err != nil {
		return err
	}
	defer rt.Close()

	sched, err := buildScheduler(rt)
	if err != nil {
		return err
	}

	sched.Start()
	defer sched.Stop()

	fmt.Printf("✅ Scheduler running (jobs: %s)\n", strings.Join(sched.GetAllJobs(), ", "))
	fmt.Printf("   Tracked tickers: %d\n", len(rt.cfg.Scheduler.Tickers))
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	return nil
}

func runSchedulerRun(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(true)
	if err != nil {
		return err
	}
	defer rt.Close()

	sched, err := buildScheduler(rt)
	if err != nil {
		return err
	}

	jobName := args[0]
	fmt.Printf("Running job %s...\n", jobName)
	if err := sched.RunJob(jobName); err != nil {
		return err
	}

	// RunJob is asynchronous; wait for the single run to land in history.
	for {
		time.Sleep(200 * time.Millisecond)
		history, err := sched.GetJobHistory(jobName)
		if err != nil {
			return err
		}
		if len(history.Results) > 0 {
			last := history.Results[len(history.Results)-1]
			if !last.Success {
				return fmt.Errorf("job %s failed: %s", jobName, last.Error)
			}
			fmt.Printf("✅ Job %s completed in %v\n", jobName, last.Duration)
			return nil
		}
	}
}
