package report

import (
	"bufio"
	"commute-planner/internal/domain"
	"fmt"
	"io"
)

// Console prints a run as a nested listing: one block per person, one
// line per routed office, one line per mode with its duration in minutes.
type Console struct {
	w io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) Report(result *domain.RunResult) error {
	if result == nil || result.Roster == nil {
		return nil
	}

	bw := bufio.NewWriter(c.w)
	roster := result.Roster

	for _, p := range roster.People {
		fmt.Fprintf(bw, "Name: %s\n", p.Name)
		for _, o := range roster.Offices {
			ranking, ok := p.Durations[o.Name]
			if !ok {
				continue
			}
			fmt.Fprintf(bw, "\t office: %s\n", o.Name)
			for _, m := range ranking {
				fmt.Fprintf(bw, "\t\t %s: %d\n", m.Mode, m.Value)
			}
		}
	}

	if hasDesignations(roster) {
		fmt.Fprintln(bw, "Nearest offices:")
		for _, p := range roster.People {
			if len(p.NearestOffices) == 0 {
				continue
			}
			fmt.Fprintf(bw, "\t %s:", p.Name)
			for _, d := range p.NearestOffices {
				fmt.Fprintf(bw, " %s (%d)", d.Name, d.Minutes)
			}
			fmt.Fprintln(bw)
		}
	}

	if len(result.Failures) > 0 {
		fmt.Fprintf(bw, "Failures: %d\n", len(result.Failures))
		for _, f := range result.Failures {
			fmt.Fprintf(bw, "\t %s\n", describe(f))
		}
	}

	return bw.Flush()
}

func hasDesignations(r *domain.Roster) bool {
	for _, p := range r.People {
		if len(p.NearestOffices) > 0 {
			return true
		}
	}
	return false
}

func describe(f domain.Failure) string {
	tag := string(f.Kind)
	if f.Transport() {
		tag += "/transport"
	}
	if f.Kind == domain.FailureRoute {
		return fmt.Sprintf("[%s] %s -> %s (%s): %v", tag, f.Entity, f.Office, f.Mode, f.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", tag, f.Entity, f.Err)
}
