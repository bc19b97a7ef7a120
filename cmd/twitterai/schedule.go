package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"twitterai/internal/scheduler"
)

// scheduleCmd runs the pipeline on a cron schedule until interrupted
var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the pipeline on a cron schedule",
	Long: `Run the pipeline on a cron schedule (default twice daily, 08:00 and
20:00) until interrupted. Runs never overlap: if a run is still going when
the next trigger fires, that trigger is skipped.`,
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	sched, err := scheduler.New(a.cfg.Schedule.Timezone, a.log)
	if err != nil {
		return err
	}

	err = sched.AddJob("pipeline", a.cfg.Schedule.Cron, func(ctx context.Context) error {
		runner, err := a.newRunner()
		if err != nil {
			return err
		}
		return runner.Run(ctx, "")
	})
	if err != nil {
		return err
	}

	sched.Start()
	if next, ok := sched.NextRun("pipeline"); ok {
		fmt.Printf("Scheduler started (%s), next run at %s\n",
			a.cfg.Schedule.Cron, next.Format("2006-01-02 15:04:05 MST"))
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	fmt.Println("Shutting down, waiting for any running job...")
	<-sched.Stop().Done()
	return nil
}
