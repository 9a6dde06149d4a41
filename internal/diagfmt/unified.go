package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/fix"
	"github.com/PicnicSupermarket/error-prone-support-sub000/pkg/diff"
)

// Unified writes a unified diff for every changed file.
func Unified(w io.Writer, changes []fix.FileChange, colored bool) error {
	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)
	hunk := color.New(color.FgCyan)
	header := color.New(color.Bold)
	for _, c := range []*color.Color{added, removed, hunk, header} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	for _, ch := range changes {
		text := diff.Unified(ch.Path, ch.Original, ch.Updated, diff.DefaultContext)
		for _, line := range strings.SplitAfter(text, "\n") {
			if line == "" {
				continue
			}
			var c *color.Color
			switch {
			case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
				c = header
			case strings.HasPrefix(line, "@@"):
				c = hunk
			case strings.HasPrefix(line, "+"):
				c = added
			case strings.HasPrefix(line, "-"):
				c = removed
			}
			var err error
			if c == nil {
				_, err = io.WriteString(w, line)
			} else {
				_, err = fmt.Fprintf(w, "%s\n", c.Sprint(strings.TrimSuffix(line, "\n")))
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}
