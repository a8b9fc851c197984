// Command clockfmt prints the four clock face strings for an instant.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"sparkclock/internal/buildinfo"
	"sparkclock/sparkos/clockface"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, time.Now))
}

func run(args []string, stdout, stderr io.Writer, now func() time.Time) int {
	fs := flag.NewFlagSet("clockfmt", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		at      = fs.String("at", "", "RFC 3339 instant (default now).")
		tz      = fs.String("tz", "", "IANA time zone for the local fields (default: the instant's own offset).")
		use24   = fs.Bool("24h", true, "Use the 24-hour clock style.")
		version = fs.Bool("version", false, "Print the build version and exit.")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *version {
		fmt.Fprintln(stdout, "clockfmt "+buildinfo.String())
		return 0
	}

	t := now()
	if *at != "" {
		parsed, err := time.Parse(time.RFC3339, *at)
		if err != nil {
			fmt.Fprintf(stderr, "clockfmt: -at: %v\n", err)
			return 2
		}
		t = parsed
	}
	if *tz != "" {
		loc, err := time.LoadLocation(*tz)
		if err != nil {
			fmt.Fprintf(stderr, "clockfmt: -tz: %v\n", err)
			return 2
		}
		t = t.In(loc)
	}

	var face clockface.Face
	s := face.Format(clockface.ReadingAt(t), true, *use24)
	fmt.Fprintln(stdout, s.Date)
	fmt.Fprintln(stdout, s.Weekday)
	fmt.Fprintln(stdout, s.LocalTime)
	fmt.Fprintln(stdout, s.UTCStamp)
	return 0
}
