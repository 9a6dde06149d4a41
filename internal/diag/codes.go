package diag

import "fmt"

// Code is a compact numeric identifier of a finding.
type Code uint16

const (
	// UnknownCode is used when no better code is known.
	UnknownCode Code = 0

	// Правила (R1xxx)
	RuleMemberOrdering     Code = 1001
	RuleAnnotationOrdering Code = 1002
	RuleRedundantSemicolon Code = 1003

	// Драйвер (D9xxx)
	DriverReadError  Code = 9001
	DriverParseError Code = 9002
	DriverInternal   Code = 9003
)

var codeTitles = map[Code]string{
	UnknownCode:            "Unknown error",
	RuleMemberOrdering:     "Members are not in canonical order",
	RuleAnnotationOrdering: "Annotations are not in lexicographic order",
	RuleRedundantSemicolon: "Redundant semicolon in type body",
	DriverReadError:        "Source file could not be read",
	DriverParseError:       "Source file could not be parsed",
	DriverInternal:         "Internal error while processing document",
}

// ID returns the stable string form, e.g. "R1001" or "D9002".
func (c Code) ID() string {
	switch {
	case c >= 1000 && c < 2000:
		return fmt.Sprintf("R%04d", uint16(c))
	case c >= 9000:
		return fmt.Sprintf("D%04d", uint16(c))
	default:
		return fmt.Sprintf("E%04d", uint16(c))
	}
}

func (c Code) String() string {
	return c.ID()
}

// Title returns a short human description of the code.
func (c Code) Title() string {
	if t, ok := codeTitles[c]; ok {
		return t
	}
	return codeTitles[UnknownCode]
}
