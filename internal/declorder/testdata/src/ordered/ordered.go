package ordered

import "strings"

const sep = ","

var parts []string

type joiner struct{}

func (joiner) join() string { return strings.Join(parts, sep) }

func helper() {}
