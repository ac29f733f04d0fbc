package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ngrash/go-moon/almanac"
	"github.com/ngrash/go-moon/ical"
	"github.com/ngrash/go-moon/icspub"
	"github.com/ngrash/go-moon/internal/logger"
)

var publishCmd = &cobra.Command{
	Use:   "publish [year]",
	Short: "Upload the lunar phases of a year to a calendar server",
	Long: `Publish uploads the calendar of a year with HTTP PUT, e.g. to a CalDAV
collection. The ETag returned by the server is kept in the ETag file and
sent with the next upload, which fails if the calendar was changed on the
server in the meantime.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPublish,
}

func init() {
	publishCmd.Flags().String("url", "", "URL the calendar is uploaded to")
	publishCmd.Flags().String("etag-file", "", "file that keeps the ETag of the last upload")
	_ = viper.BindPFlag("publish.url", publishCmd.Flags().Lookup("url"))
	_ = viper.BindPFlag("publish.etag_file", publishCmd.Flags().Lookup("etag-file"))
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	if cfg.Publish.URL == "" {
		return errors.New("no publish URL: set --url, publish.url or MOONPHASE_PUBLISH_URL")
	}
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

	a, err := almanac.ForYear(years[0], n)
	if err != nil {
		return err
	}
	cal := ical.FromAlmanac(a, opts)
	if err := ical.Validate(cal); err != nil {
		return fmt.Errorf("calendar %d: %w", a.Year, err)
	}

	etag, err := readETag(cfg.Publish.ETagFile)
	if err != nil {
		return err
	}
	newEtag, err := icspub.Publish(cmd.Context(), cfg.Publish.URL, cal, etag)
	if errors.Is(err, icspub.ErrPreconditionFailed) {
		return fmt.Errorf("%w: remove %s to overwrite it", err, cfg.Publish.ETagFile)
	}
	if err != nil {
		return err
	}
	if err := writeETag(cfg.Publish.ETagFile, newEtag); err != nil {
		return err
	}

	logger.Log.WithFields(logrus.Fields{
		"year":   a.Year,
		"events": len(cal.Events),
		"url":    cfg.Publish.URL,
		"etag":   newEtag,
	}).Info("Moon phases published")
	return nil
}

// readETag returns the ETag stored in file, or an empty string if there is
// none.
func readETag(file string) (string, error) {
	if file == "" {
		return "", nil
	}
	data, err := os.ReadFile(file)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read etag: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// writeETag stores etag in file. An empty etag removes the file, as the
// server did not provide one to match against.
func writeETag(file, etag string) error {
	if file == "" {
		return nil
	}
	if etag == "" {
		if err := os.Remove(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove etag: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(file, []byte(etag+"\n"), 0o644); err != nil {
		return fmt.Errorf("write etag: %w", err)
	}
	return nil
}
