package main

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ngrash/go-moon/almanac"
	"github.com/ngrash/go-moon/internal/logger"
)

var listCmd = &cobra.Command{
	Use:   "list [year | from-to]...",
	Short: "List the lunar phases of years",
	Long: `List prints every phase of the given years in UTC. Without arguments the
current year is listed.`,
	Example: `  moonphase list 2016
  moonphase list --language de --format json 2016-2018`,
	RunE: runList,
}

func init() {
	listCmd.Flags().String("format", "", "output format (text, json, toml)")
	_ = viper.BindPFlag("format", listCmd.Flags().Lookup("format"))
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	format, err := almanac.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	years, err := parseYears(args, time.Now())
	if err != nil {
		return err
	}

	as, err := almanac.EnumerateYears(cmd.Context(), years, cfg.Names())
	if err != nil {
		return fmt.Errorf("compute almanacs: %w", err)
	}
	for _, a := range as {
		fields := logrus.Fields{"year": a.Year, "events": len(a.Events)}
		if err := almanac.Validate(a); err != nil {
			logger.Log.WithFields(fields).WithError(err).Warn("Implausible almanac")
			continue
		}
		logger.Log.WithFields(fields).Debug("Calculated almanac")
	}

	return almanac.Render(cmd.OutOrStdout(), format, as...)
}
