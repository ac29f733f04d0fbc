package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ngrash/go-moon/ical"
	"github.com/ngrash/go-moon/icspub"
)

var (
	eventsFlag   = flag.Bool("events", true, "Print the events")
	validateFlag = flag.Bool("validate", false, "Validate the calendar and exit 1 if it is invalid")
)

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) != 1 {
		fmt.Println("Usage: icsinfo [-events=false] [-validate] <ics file or URL>")
		os.Exit(1)
	}

	cal, err := load(args[0])
	if err != nil {
		fmt.Println("decoding:", err)
		os.Exit(1)
	}

	printCalendar(os.Stdout, cal, *eventsFlag)

	if *validateFlag {
		if err := ical.Validate(cal); err != nil {
			fmt.Println("invalid calendar:")
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Println("calendar is valid")
	}
}

// load decodes the calendar in a file or at an http(s) URL.
func load(src string) (ical.Calendar, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		cal, etag, err := icspub.Fetch(context.Background(), src, "")
		if err != nil {
			return ical.Calendar{}, err
		}
		fmt.Println("ETag =", etag)
		return *cal, nil
	}
	f, err := os.Open(src)
	if err != nil {
		return ical.Calendar{}, err
	}
	defer f.Close()
	return ical.Decode(f)
}

func printCalendar(w io.Writer, c ical.Calendar, events bool) {
	fmt.Fprintln(w, "Calendar")
	fmt.Fprintln(w, "  method  =", c.Method)
	fmt.Fprintln(w, "  version =", c.Version)
	fmt.Fprintln(w, "  name    =", c.Name)
	fmt.Fprintln(w, "  prodid  =", c.ProdID)
	fmt.Fprintln(w, "  events  =", len(c.Events))
	fmt.Fprintln(w)

	if !events {
		return
	}
	for i, e := range c.Events {
		fmt.Fprintf(w, "Event %d\n", i)
		fmt.Fprintln(w, "  uid     =", e.UID)
		fmt.Fprintln(w, "  summary =", e.Summary)
		fmt.Fprintf(w, "  dates   = %v - %v\n", e.Start, e.End)
		fmt.Fprintln(w, "  stamp   =", e.Stamp.Format(time.RFC3339))
		fmt.Fprintln(w)
	}
}
