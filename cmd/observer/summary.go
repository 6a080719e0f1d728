package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/LinkTsang/p0f-observer/internal/pipeline"
)

// printSummary writes per-module counts, largest first.
//
//	Lines:   120
//	  syn           64
//	  syn+ack       40
//	  mtu           12
//	✓ Parsed:  116
//	⚠ Skipped: 1
//	✗ Failed:  3
func printSummary(w io.Writer, stats pipeline.Stats, colored bool) error {
	green, yellow, red := color.New(color.FgGreen), color.New(color.FgYellow), color.New(color.FgRed)
	for _, c := range []*color.Color{green, yellow, red} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	modules := make([]string, 0, len(stats.ByModule))
	width := 0
	for m := range stats.ByModule {
		modules = append(modules, m)
		width = max(width, len(m))
	}
	sort.Slice(modules, func(i, j int) bool {
		a, b := modules[i], modules[j]
		if stats.ByModule[a] != stats.ByModule[b] {
			return stats.ByModule[a] > stats.ByModule[b]
		}
		return a < b
	})

	var sb strings.Builder
	fmt.Fprintf(&sb, "Lines:   %d\n", stats.Lines)
	for _, m := range modules {
		fmt.Fprintf(&sb, "  %-*s  %d\n", width, m, stats.ByModule[m])
	}
	sb.WriteString(green.Sprintf("✓ Parsed:  %d", stats.Parsed) + "\n")
	if stats.Skipped > 0 {
		sb.WriteString(yellow.Sprintf("⚠ Skipped: %d", stats.Skipped) + "\n")
	}
	if stats.Failed > 0 {
		sb.WriteString(red.Sprintf("✗ Failed:  %d", stats.Failed) + "\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
