package scenario

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"
)

// Report formats accepted by Write.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Write renders the report in the given format.
func (r *Report) Write(w io.Writer, format string) error {
	switch format {
	case "", FormatText:
		return r.writeText(w)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

func (r *Report) writeText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, res := range r.Results {
		status := "PASS"
		if !res.Passed {
			status = "FAIL"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", status, res.Scenario, res.Duration.Round(time.Millisecond))
		if !res.Passed {
			fmt.Fprintf(tw, "\t    %s\t\n", res.Error)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	failed := len(r.Failed())
	_, err := fmt.Fprintf(w, "\n%d scenarios, %d passed, %d failed in %s (run %s)\n",
		len(r.Results), len(r.Results)-failed, failed, r.Duration.Round(time.Millisecond), r.RunID)
	return err
}
