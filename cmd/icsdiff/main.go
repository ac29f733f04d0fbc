package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ngrash/go-moon/ical"
)

var ignoreStampsFlag = flag.Bool("ignore-stamps", false, "Ignore UIDs and timestamps, which differ between exports")

func main() {
	if err := run(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()
	args := flag.Args()
	if len(args) != 2 {
		return fmt.Errorf("Usage: icsdiff [-ignore-stamps] <ics file A> <ics file B>\n")
	}

	a, err := decodeFile(args[0])
	if err != nil {
		return err
	}
	b, err := decodeFile(args[1])
	if err != nil {
		return err
	}

	if diff := diffCalendars(a, b, *ignoreStampsFlag); diff != "" {
		fmt.Println("files are different: -A +B")
		fmt.Println(diff)
	} else {
		fmt.Println("files are identical")
	}

	return nil
}

func decodeFile(name string) (ical.Calendar, error) {
	f, err := os.Open(name)
	if err != nil {
		return ical.Calendar{}, err
	}
	defer f.Close()
	cal, err := ical.Decode(f)
	if err != nil {
		return ical.Calendar{}, fmt.Errorf("%s: %w", name, err)
	}
	return cal, nil
}

func diffCalendars(a, b ical.Calendar, ignoreStamps bool) string {
	var opts []cmp.Option
	if ignoreStamps {
		opts = append(opts, cmpopts.IgnoreFields(ical.Event{}, "UID", "Created", "Stamp", "LastModified"))
	}
	return cmp.Diff(a, b, opts...)
}
