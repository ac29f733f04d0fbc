package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ngrash/go-moon/almanac"
	"github.com/ngrash/go-moon/internal/logger"
	"github.com/ngrash/go-moon/lunar"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Report the upcoming lunar phases on a schedule",
	Long: `Watch prints the next phases whenever the cron schedule fires, until it
is interrupted. Phases within the look-ahead are logged as well.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("cron", "", "standard cron expression of the schedule, in UTC")
	watchCmd.Flags().Int("count", 0, "number of reported phases")
	watchCmd.Flags().Bool("once", false, "report once and exit")
	_ = viper.BindPFlag("watch.cron", watchCmd.Flags().Lookup("cron"))
	_ = viper.BindPFlag("watch.count", watchCmd.Flags().Lookup("count"))
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	lookahead := cfg.Lookahead()
	report := func(events []lunar.Event) {
		now := time.Now()
		for _, e := range events {
			if e.Time.Sub(now) <= lookahead {
				logger.Log.WithFields(logrus.Fields{
					"phase": e.Phase.String(),
					"time":  e.Time.Format(time.RFC3339),
				}).Info("Phase ahead")
			}
		}
		if err := printEvents(out, events); err != nil {
			logger.Log.WithError(err).Error("Report failed")
		}
	}

	w, err := almanac.NewWatcher(cfg.Watch.Cron, cfg.Watch.Count, cfg.Names(), report)
	if err != nil {
		return err
	}
	w.Tick()
	if once, _ := cmd.Flags().GetBool("once"); once {
		return nil
	}

	w.Start()
	logger.Log.WithField("next", w.Next(time.Now()).Format(time.RFC3339)).Info("Watching moon phases")
	<-cmd.Context().Done()
	<-w.Stop().Done()
	logger.Log.Info("Stopped watching")
	return nil
}

// printEvents writes one line per event followed by a blank line.
func printEvents(w io.Writer, events []lunar.Event) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\n", e.Time.Format(almanac.TimeLayout), e.Label)
	}
	fmt.Fprintln(tw)
	return tw.Flush()
}
