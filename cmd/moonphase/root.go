package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ngrash/go-moon/almanac"
	"github.com/ngrash/go-moon/ical"
	"github.com/ngrash/go-moon/internal/config"
	"github.com/ngrash/go-moon/internal/logger"
	"github.com/ngrash/go-moon/internal/names"
)

var (
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "moonphase",
	Short: "Compute the dates of the lunar phases",
	Long: `Moonphase computes new moon, first quarter, full moon and last quarter
of the years 1600 to 2399 with an accuracy of a few minutes and exports
them as all-day events of an iCalendar file.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initCommand,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default .moonphase.toml)")
	pf.String("language", "", "language of the phase names, e.g. en or de")
	pf.String("log-level", "", "log level (debug, info, warn, error)")
	pf.String("timezone", "", "time zone that selects the day of calendar events")

	_ = viper.BindPFlag("language", pf.Lookup("language"))
	_ = viper.BindPFlag("log_level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("timezone", pf.Lookup("timezone"))
}

func initCommand(cmd *cobra.Command, args []string) error {
	if err := config.Init(cfgFile); err != nil {
		return err
	}
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Init(cfg)
	return nil
}

// parseYears parses years like "2016" and inclusive ranges like
// "2016-2018". Without arguments the year of now is returned.
func parseYears(args []string, now time.Time) ([]int, error) {
	if len(args) == 0 {
		return []int{now.Year()}, nil
	}
	var years []int
	for _, arg := range args {
		from, to, isRange := strings.Cut(arg, "-")
		first, err := strconv.Atoi(from)
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", arg)
		}
		last := first
		if isRange {
			last, err = strconv.Atoi(to)
			if err != nil {
				return nil, fmt.Errorf("invalid year range %q", arg)
			}
			if last < first {
				return nil, fmt.Errorf("invalid year range %q: %d is before %d", arg, last, first)
			}
		}
		for y := first; y <= last; y++ {
			if err := almanac.CheckYear(y); err != nil {
				return nil, err
			}
			years = append(years, y)
		}
	}
	return years, nil
}

// calendarOptions returns the export options of the configuration.
func calendarOptions(c config.Config, n names.Names) (ical.Options, error) {
	loc, err := c.Location()
	if err != nil {
		return ical.Options{}, err
	}
	name := c.CalendarName
	if name == "" {
		name = n.Calendar
	}
	return ical.Options{
		Name:     name,
		Domain:   c.UIDDomain,
		Location: loc,
	}, nil
}

// filePrefix derives the file name prefix from a calendar name, e.g.
// "Moon phases" becomes "Moonphases".
func filePrefix(calendarName string) string {
	return strings.ReplaceAll(calendarName, " ", "")
}
