package main

import (
	"fmt"
	"io"

	"github.com/NikBel3476/evacuation-gui-iced/pkg/bim"
	"github.com/NikBel3476/evacuation-gui-iced/pkg/timeline"
	"github.com/NikBel3476/evacuation-gui-iced/pkg/validation"
)

func printValidationReport(w io.Writer, r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Fprintf(w, "ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			printResult(w, e)
		}
		fmt.Fprintln(w)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(w, "WARNINGS (%d):\n", len(r.Warnings))
		for _, wr := range r.Warnings {
			printResult(w, wr)
		}
		fmt.Fprintln(w)
	}

	if len(r.Info) > 0 {
		fmt.Fprintf(w, "INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Fprintf(w, "  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Fprintln(w)
	}

	if r.Valid {
		fmt.Fprintf(w, "Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Fprintf(w, "Result: INVALID (%s)\n", r.Summary)
	}
}

func printResult(w io.Writer, res validation.Result) {
	fmt.Fprintf(w, "  [%s] %s\n", res.Level, res.Message)
	if res.Path != "" {
		if res.ActualValue != nil {
			fmt.Fprintf(w, "    -> %s = %v\n", res.Path, res.ActualValue)
		} else {
			fmt.Fprintf(w, "    -> %s\n", res.Path)
		}
	}
	if res.ElementID != "" {
		fmt.Fprintf(w, "    element: %s\n", res.ElementID)
	}
	if res.Expected != "" {
		fmt.Fprintf(w, "    expected: %s\n", res.Expected)
	}
}

func printBuilding(w io.Writer, b *bim.Building) {
	fmt.Fprintln(w, b.NameBuilding)
	if a := b.Address; a.City != "" || a.StreetAddress != "" {
		fmt.Fprintf(w, "%s, %s\n", a.City, a.StreetAddress)
	}
	fmt.Fprintf(w, "%d levels, %d elements\n\n", len(b.Level), b.ElementCount())

	for i, l := range b.Level {
		fmt.Fprintf(w, "[%d] %s (z=%g)\n", i, l.NameLevel, l.ZLevel)
		fmt.Fprintf(w, "  %-36s %-12s %-20s %10s\n", "Id", "Sign", "Name", "Area m2")
		for _, e := range l.BuildElement {
			fmt.Fprintf(w, "  %-36s %-12s %-20s %10.2f\n", e.ID, e.Sign, e.Name, e.Area())
		}
		if box, ok := l.Bounds(); ok {
			fmt.Fprintf(w, "  bounds: (%g, %g) - (%g, %g)\n", box.Min.X, box.Min.Y, box.Max.X, box.Max.Y)
		}
		fmt.Fprintln(w)
	}
}

type statsRow struct {
	timeline.Summary
	Exited int
}

func printStats(w io.Writer, rows []statsRow) {
	fmt.Fprintf(w, "%10s %10s %10s %10s\n", "Time s", "Inside", "Evacuated", "Exited")
	fmt.Fprintf(w, "%10s %10s %10s %10s\n", "----------", "----------", "----------", "----------")
	for _, r := range rows {
		fmt.Fprintf(w, "%10.2f %10d %10d %10d\n", r.Time, r.Inside, r.Evacuated, r.Exited)
	}
}
