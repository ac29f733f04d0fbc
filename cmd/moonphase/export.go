package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ngrash/go-moon/almanac"
	"github.com/ngrash/go-moon/ical"
	"github.com/ngrash/go-moon/internal/logger"
)

var exportCmd = &cobra.Command{
	Use:   "export [year | from-to]...",
	Short: "Write the lunar phases of years to iCalendar files",
	Long: `Export writes one iCalendar file per year, e.g. Moonphases-2016.ics, with
an all-day event for every phase. The paths of the written files are
printed.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("output-dir", "", "directory of the written files")
	exportCmd.Flags().String("calendar-name", "", "calendar name (default localised)")
	_ = viper.BindPFlag("output_dir", exportCmd.Flags().Lookup("output-dir"))
	_ = viper.BindPFlag("calendar_name", exportCmd.Flags().Lookup("calendar-name"))
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	years, err := parseYears(args, time.Now())
	if err != nil {
		return err
	}
	n := cfg.Names()
	opts, err := calendarOptions(cfg, n)
	if err != nil {
		return err
	}
	opts.Now = time.Now()

	as, err := almanac.EnumerateYears(cmd.Context(), years, n)
	if err != nil {
		return fmt.Errorf("compute almanacs: %w", err)
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	for _, a := range as {
		cal := ical.FromAlmanac(a, opts)
		if err := ical.Validate(cal); err != nil {
			return fmt.Errorf("calendar %d: %w", a.Year, err)
		}
		file := filepath.Join(cfg.OutputDir, ical.FileName(filePrefix(opts.Name), a.Year))
		if err := writeCalendar(file, cal); err != nil {
			return err
		}
		logger.Log.WithFields(logrus.Fields{
			"year":   a.Year,
			"events": len(cal.Events),
			"file":   file,
		}).Info("Moon phases stored")
		fmt.Fprintln(cmd.OutOrStdout(), file)
	}
	return nil
}

func writeCalendar(file string, cal ical.Calendar) (err error) {
	f, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("create calendar file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close calendar file: %w", cerr)
		}
	}()
	if err := cal.Encode(f); err != nil {
		return fmt.Errorf("write %s: %w", file, err)
	}
	return nil
}
