// Package diff renders line-based unified diffs of rewritten files.
package diff

import (
	"fmt"
	"slices"
	"strings"
)

// DefaultContext is the number of unchanged lines shown around a change.
const DefaultContext = 3

// Op is the kind of a diff line.
type Op uint8

const (
	Equal Op = iota
	Insert
	Delete
)

// Line is one line of an edit script. Old and New are 0-based line indices,
// -1 where the line does not exist on that side.
type Line struct {
	Op   Op
	Text string
	Old  int
	New  int
}

// Split cuts s into lines keeping their terminators.
func Split(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Lines returns a shortest edit script turning a into b (Myers). Within a
// run of changes deletions come before insertions.
func Lines(a, b []string) []Line {
	n, m := len(a), len(b)
	limit := n + m
	if limit == 0 {
		return nil
	}
	off := limit
	v := make([]int, 2*limit+2)
	var trail [][]int
	for d := 0; d <= limit; d++ {
		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[off+k-1] < v[off+k+1]) {
				x = v[off+k+1]
			} else {
				x = v[off+k-1] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[off+k] = x
			if x >= n && y >= m {
				trail = append(trail, slices.Clone(v))
				return group(walkBack(a, b, trail, off))
			}
		}
		trail = append(trail, slices.Clone(v))
	}
	panic("diff: no edit script found")
}

// walkBack follows trail from (len(a), len(b)) back to the origin.
// trail[d] is the frontier after step d.
func walkBack(a, b []string, trail [][]int, off int) []Line {
	x, y := len(a), len(b)
	out := make([]Line, 0, max(x, y))
	for d := len(trail) - 1; d > 0; d-- {
		prev := trail[d-1]
		k := x - y
		down := k == -d || (k != d && prev[off+k-1] < prev[off+k+1])
		pk := k - 1
		if down {
			pk = k + 1
		}
		px := prev[off+pk]
		py := px - pk
		for x > px && y > py {
			x--
			y--
			out = append(out, Line{Op: Equal, Text: a[x], Old: x, New: y})
		}
		if down {
			y--
			out = append(out, Line{Op: Insert, Text: b[y], Old: -1, New: y})
		} else {
			x--
			out = append(out, Line{Op: Delete, Text: a[x], Old: x, New: -1})
		}
	}
	for x > 0 && y > 0 {
		x--
		y--
		out = append(out, Line{Op: Equal, Text: a[x], Old: x, New: y})
	}
	slices.Reverse(out)
	return out
}

// group moves deletions in front of insertions inside every change run.
func group(lines []Line) []Line {
	for i := 0; i < len(lines); {
		if lines[i].Op == Equal {
			i++
			continue
		}
		j := i
		for j < len(lines) && lines[j].Op != Equal {
			j++
		}
		slices.SortStableFunc(lines[i:j], func(p, q Line) int {
			return int(q.Op) - int(p.Op) // Delete (2) перед Insert (1)
		})
		i = j
	}
	return lines
}

// Stats counts inserted and deleted lines.
func Stats(lines []Line) (added, removed int) {
	for _, l := range lines {
		switch l.Op {
		case Insert:
			added++
		case Delete:
			removed++
		}
	}
	return added, removed
}

// Unified renders the difference between before and after of path. The
// result is empty when both are equal.
func Unified(path string, before, after []byte, context int) string {
	if string(before) == string(after) {
		return ""
	}
	lines := Lines(Split(string(before)), Split(string(after)))

	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n", path, path)
	for _, h := range hunks(lines, context) {
		writeHunk(&b, lines, h[0], h[1])
	}
	return b.String()
}

// hunks returns inclusive [from, to] index ranges into lines.
func hunks(lines []Line, context int) [][2]int {
	var out [][2]int
	last := -1
	for i, l := range lines {
		if l.Op == Equal {
			continue
		}
		if last >= 0 && i-last-1 <= 2*context {
			out[len(out)-1][1] = min(i+context, len(lines)-1)
		} else {
			out = append(out, [2]int{max(i-context, 0), min(i+context, len(lines)-1)})
		}
		last = i
	}
	return out
}

func writeHunk(b *strings.Builder, lines []Line, from, to int) {
	var oldBefore, newBefore int
	for _, l := range lines[:from] {
		if l.Op != Insert {
			oldBefore++
		}
		if l.Op != Delete {
			newBefore++
		}
	}
	var oldCount, newCount int
	for _, l := range lines[from : to+1] {
		if l.Op != Insert {
			oldCount++
		}
		if l.Op != Delete {
			newCount++
		}
	}
	fmt.Fprintf(b, "@@ -%s +%s @@\n", rangeOf(oldBefore, oldCount), rangeOf(newBefore, newCount))

	for _, l := range lines[from : to+1] {
		switch l.Op {
		case Equal:
			b.WriteByte(' ')
		case Insert:
			b.WriteByte('+')
		case Delete:
			b.WriteByte('-')
		}
		b.WriteString(l.Text)
		if !strings.HasSuffix(l.Text, "\n") {
			b.WriteString("\n\\ No newline at end of file\n")
		}
	}
}

// rangeOf formats a hunk range; an empty range names the line before it.
func rangeOf(before, count int) string {
	if count == 0 {
		return fmt.Sprintf("%d,0", before)
	}
	return fmt.Sprintf("%d,%d", before+1, count)
}
