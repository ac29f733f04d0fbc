package almanac

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Format is an output format of Render.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	TOML Format = "toml"
)

// ParseFormat returns the Format named s.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case Text, JSON, TOML:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q: must be one of %q, %q, %q", s, Text, JSON, TOML)
}

// TimeLayout is the layout of event times in text output.
const TimeLayout = "Mon 2006-01-02 15:04:05 MST"

type record struct {
	Lunation int       `json:"lunation" toml:"lunation"`
	Phase    int       `json:"phase" toml:"phase"`
	Label    string    `json:"label" toml:"label"`
	Time     time.Time `json:"time" toml:"time"`
	JDE      float64   `json:"jde" toml:"jde"`
}

type document struct {
	Year   int      `json:"year" toml:"year"`
	Events []record `json:"events" toml:"events"`
}

type documents struct {
	Almanacs []document `json:"almanac" toml:"almanac"`
}

func newDocuments(as []Almanac) documents {
	var d documents
	for _, a := range as {
		doc := document{Year: a.Year, Events: make([]record, len(a.Events))}
		for i, e := range a.Events {
			doc.Events[i] = record{
				Lunation: e.Lunation,
				Phase:    int(e.Phase),
				Label:    e.Label,
				Time:     e.Time,
				JDE:      e.JDE,
			}
		}
		d.Almanacs = append(d.Almanacs, doc)
	}
	return d
}

// Render writes the almanacs to w in format f.
func Render(w io.Writer, f Format, as ...Almanac) error {
	switch f {
	case Text:
		return renderText(w, as)
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(newDocuments(as))
	case TOML:
		return toml.NewEncoder(w).Encode(newDocuments(as))
	}
	return fmt.Errorf("unknown format %q", f)
}

func renderText(w io.Writer, as []Almanac) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	for i, a := range as {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "%d\n", a.Year)
		for _, e := range a.Events {
			fmt.Fprintf(tw, "%s\t%s\n", e.Time.Format(TimeLayout), e.Label)
		}
		fmt.Fprintln(tw, a.Summary())
	}
	return tw.Flush()
}
