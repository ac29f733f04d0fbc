package ical

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/ngrash/go-moon/almanac"
	"github.com/ngrash/go-moon/internal/names"
	"github.com/ngrash/go-moon/lunar"
)

var testStamp = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

func sequentialUUIDs() func() uuid.UUID {
	var n byte
	return func() uuid.UUID {
		n++
		return uuid.UUID{15: n}
	}
}

func testCalendar() Calendar {
	return Calendar{
		Method:  MethodPublish,
		Version: Version,
		Name:    "Mondphasen",
		ProdID:  DefaultProdID,
		Events: []Event{{
			UID:          "20240601T120000Z-00000000-0000-0000-0000-000000000001@example.org",
			Created:      testStamp,
			Stamp:        testStamp,
			LastModified: testStamp,
			Summary:      "Vollmond",
			Description:  "Mondphasen",
			Start:        Date{2024, time.June, 22},
			End:          Date{2024, time.June, 23},
			Transparent:  true,
		}},
	}
}

const testCalendarText = "BEGIN:VCALENDAR\r\n" +
	"METHOD:PUBLISH\r\n" +
	"VERSION:2.0\r\n" +
	"X-WR-CALNAME:Mondphasen\r\n" +
	"PRODID:-//ngrash//go-moon//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:20240601T120000Z-00000000-0000-0000-0000-000000000001@example.org\r\n" +
	"CREATED:20240601T120000Z\r\n" +
	"DTSTAMP:20240601T120000Z\r\n" +
	"LAST-MODIFIED:20240601T120000Z\r\n" +
	"SUMMARY:Vollmond\r\n" +
	"DESCRIPTION:Mondphasen\r\n" +
	"DTSTART;VALUE=DATE:20240622\r\n" +
	"DTEND;VALUE=DATE:20240623\r\n" +
	"TRANSP:TRANSPARENT\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestCalendar_Encode(t *testing.T) {
	var buf bytes.Buffer
	if err := testCalendar().Encode(&buf); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(testCalendarText, buf.String()); diff != "" {
		t.Errorf("Encode() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode(t *testing.T) {
	got, err := Decode(strings.NewReader(testCalendarText))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(testCalendar(), got); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_Lenient(t *testing.T) {
	input := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Apple Inc.//iCal 5.0.0//DE",
		"BEGIN:VTIMEZONE",
		"TZID:Europe/Berlin",
		"BEGIN:STANDARD",
		"DTSTART:19701025T030000",
		"END:STANDARD",
		"END:VTIMEZONE",
		"",
		"BEGIN:VEVENT",
		"UID:a@b",
		"DTSTAMP:20160823T100000Z",
		"SUMMARY:Full",
		"  Moon",
		"X-MOZILLA-ALARM-DEFAULT-LENGTH:0",
		"DTSTART:20161114T135300Z",
		"BEGIN:VALARM",
		"ACTION:DISPLAY",
		"END:VALARM",
		"END:VEVENT",
		"END:VCALENDAR",
	}, "\n")
	got, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	want := Calendar{
		Version: Version,
		ProdID:  "-//Apple Inc.//iCal 5.0.0//DE",
		Events: []Event{{
			UID:     "a@b",
			Stamp:   time.Date(2016, time.August, 23, 10, 0, 0, 0, time.UTC),
			Summary: "Full Moon",
			Start:   Date{2016, time.November, 14},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_Errors(t *testing.T) {
	const event = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nBEGIN:VEVENT\r\nUID:a@b\r\n%s\r\nEND:VEVENT\r\nEND:VCALENDAR\r\n"
	cases := []struct {
		name     string
		input    string
		event    int
		property string // empty for syntax errors
	}{
		{"empty", "", -1, ""},
		{"no calendar", "BEGIN:VEVENT\r\n", -1, ""},
		{"missing colon", "BEGIN:VCALENDAR\r\nVERSION\r\n", -1, ""},
		{"unbalanced end", "BEGIN:VCALENDAR\r\nEND:VEVENT\r\n", -1, ""},
		{"trailing content", "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\nVERSION:2.0\r\n", -1, ""},
		{"unterminated event", "BEGIN:VCALENDAR\r\nBEGIN:VEVENT\r\nUID:a@b\r\n", -1, ""},
		{"invalid date", fmt.Sprintf(event, "DTSTART;VALUE=DATE:20161399"), 0, "DTSTART"},
		{"invalid end", fmt.Sprintf(event, "DTEND:2016-11-15"), 0, "DTEND"},
		{"invalid timestamp", fmt.Sprintf(event, "DTSTAMP:yesterday"), 0, "DTSTAMP"},
		{"invalid transparency", fmt.Sprintf(event, "TRANSP:SOMETIMES"), 0, "TRANSP"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(c.input))
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Decode() = %v, want *ParseError", err)
			}
			if pe.Event != c.event || pe.Property != c.property {
				t.Errorf("error in event %d property %q, want %d %q: %v", pe.Event, pe.Property, c.event, c.property, err)
			}
		})
	}
}

func TestEncode_FoldAndEscape(t *testing.T) {
	c := testCalendar()
	c.Events[0].Summary = strings.Repeat("Mondphase ä; ", 20)
	c.Events[0].Description = "a,b;c\\d\ne"

	var buf bytes.Buffer
	if err := c.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `DESCRIPTION:a\,b\;c\\d\ne`+"\r\n") {
		t.Errorf("description not escaped:\n%s", buf.String())
	}
	checkLines(t, buf.String())

	got, err := Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(c, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_Folding(t *testing.T) {
	summaries := []string{
		"short",
		strings.Repeat("x", 75-len("SUMMARY:")),
		strings.Repeat("x", 76-len("SUMMARY:")),
		strings.Repeat("x", 300),
		strings.Repeat("ä", 100),
		strings.Repeat("x", 66) + "äb",
		strings.Repeat("Vollmond ", 30),
		strings.Repeat(`\;,`, 40),
	}
	for _, summary := range summaries {
		c := testCalendar()
		c.Events[0].Summary = summary

		var buf bytes.Buffer
		if err := c.Encode(&buf); err != nil {
			t.Fatal(err)
		}
		checkLines(t, buf.String())
		got, err := Decode(&buf)
		if err != nil {
			t.Fatalf("Decode(): %v", err)
		}
		if got.Events[0].Summary != summary {
			t.Errorf("summary %q came back as %q", summary, got.Events[0].Summary)
		}
	}
}

// checkLines checks that every content line of text ends with CRLF, has at
// most 75 octets and holds complete UTF-8 sequences.
func checkLines(t *testing.T, text string) {
	t.Helper()
	if !strings.HasSuffix(text, "\r\n") {
		t.Error("text does not end with CRLF")
	}
	for i, line := range strings.Split(strings.TrimSuffix(text, "\r\n"), "\r\n") {
		if len(line) > maxLineOctets {
			t.Errorf("line %d has %d octets: %q", i+1, len(line), line)
		}
		if strings.Contains(line, "\n") {
			t.Errorf("line %d contains a bare line feed: %q", i+1, line)
		}
		if !utf8.ValidString(line) {
			t.Errorf("line %d splits a UTF-8 sequence: %q", i+1, line)
		}
	}
}

func TestFromAlmanac(t *testing.T) {
	a, err := almanac.ForYear(2016, names.German)
	if err != nil {
		t.Fatal(err)
	}
	c := FromAlmanac(a, Options{
		Name:    names.German.Calendar,
		Domain:  "example.org",
		Now:     testStamp.Add(300 * time.Millisecond),
		NewUUID: sequentialUUIDs(),
	})
	if err := Validate(c); err != nil {
		t.Fatalf("Validate(): %v", err)
	}
	if len(c.Events) != len(a.Events) {
		t.Fatalf("got %d events, want %d", len(c.Events), len(a.Events))
	}
	if c.Name != "Mondphasen" || c.Method != MethodPublish || c.ProdID != DefaultProdID {
		t.Errorf("calendar header = %q %q %q", c.Name, c.Method, c.ProdID)
	}

	want := Event{
		UID:          "20240601T120000Z-00000000-0000-0000-0000-000000000001@example.org",
		Created:      testStamp,
		Stamp:        testStamp,
		LastModified: testStamp,
		Summary:      "Letztes Viertel",
		Description:  "Mondphasen",
		Start:        Date{2016, time.January, 2},
		End:          Date{2016, time.January, 3},
		Transparent:  true,
	}
	if diff := cmp.Diff(want, c.Events[0]); diff != "" {
		t.Errorf("first event mismatch (-want +got):\n%s", diff)
	}

	var found bool
	for i, e := range c.Events {
		if a.Events[i].Phase == lunar.FullMoon && e.Start == (Date{2016, time.November, 14}) {
			found = e.Summary == "Vollmond"
		}
	}
	if !found {
		t.Error("no full moon event on 2016-11-14")
	}
}

func TestFromAlmanac_Location(t *testing.T) {
	a := almanac.Almanac{Year: 2016, Events: []lunar.Event{{
		Phase: lunar.LastQuarter,
		JDE:   2457389.730255,
		Time:  time.Date(2016, time.January, 2, 5, 31, 34, 0, time.UTC),
		Label: "Last Quarter",
	}}}
	c := FromAlmanac(a, Options{Location: time.FixedZone("UTC-8", -8*60*60), Now: testStamp})
	if got, want := c.Events[0].Start, (Date{2016, time.January, 1}); got != want {
		t.Errorf("start = %v, want %v", got, want)
	}
	if c.Name != DefaultName || !strings.HasSuffix(c.Events[0].UID, "@"+DefaultDomain) {
		t.Errorf("defaults not applied: name %q, uid %q", c.Name, c.Events[0].UID)
	}
}

func TestValidate(t *testing.T) {
	valid := testCalendar()

	dup := testCalendar()
	dup.Events = append(dup.Events, dup.Events[0])

	backwards := testCalendar()
	backwards.Events[0].End = Date{2024, time.June, 21}

	empty := testCalendar()
	empty.Events[0] = Event{}

	cases := []struct {
		name string
		in   Calendar
		want []string // substrings of the error
	}{
		{"valid", valid, nil},
		{"header", Calendar{Version: "1.0"}, []string{"invalid version", "missing product identifier"}},
		{"duplicate", dup, []string{`event 1: duplicate uid`}},
		{"end before start", backwards, []string{"not after start date"}},
		{"empty event", empty, []string{"missing uid", "missing timestamp", "missing summary", "invalid start date"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := Validate(c.in)
			if c.want == nil {
				if err != nil {
					t.Errorf("Validate() = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			for _, s := range c.want {
				if !strings.Contains(err.Error(), s) {
					t.Errorf("Validate() = %v, want it to contain %q", err, s)
				}
			}
		})
	}
}

func TestDate(t *testing.T) {
	d := Date{2016, time.February, 28}
	if got, want := d.AddDays(1), (Date{2016, time.February, 29}); got != want {
		t.Errorf("AddDays(1) = %v, want %v", got, want)
	}
	if got, want := d.String(), "20160228"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if (Date{2015, time.February, 29}).Valid() {
		t.Error("2015-02-29 is valid")
	}
	if _, err := parseDate("2016022"); err == nil {
		t.Error("parseDate accepted 7 digits")
	}
}

func TestFileName(t *testing.T) {
	if got, want := FileName("", 2016), "Moonphases-2016.ics"; got != want {
		t.Errorf("FileName() = %q, want %q", got, want)
	}
	if got, want := FileName("Mondphasen", 1999), "Mondphasen-1999.ics"; got != want {
		t.Errorf("FileName() = %q, want %q", got, want)
	}
}
