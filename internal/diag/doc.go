// Package diag defines the diagnostic model shared by rules, the driver and
// the fix engine.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error).
//   - Code – compact numeric identifier with a stable string form (R1001).
//   - Rule – name of the rule that produced it.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the canonical source.Span pointing to the issue.
//   - Notes – optional secondary spans/messages for additional context.
//   - Fixes – candidate rewrites as patch.Proposal values.
//   - NoFix – why the finding is reported as "not auto-fixable".
//
// Fixes of all diagnostics of one document compete for acceptance in
// internal/resolve; a diagnostic never applies its own fix.
//
// # Emitting diagnostics
//
// Rules use a Reporter, usually through NewReportBuilder (or ReportError /
// ReportWarning / ReportInfo) chained with WithRule, WithNote, WithFix or
// NotFixable before Emit. BagReporter aggregates diagnostics into a Bag, which
// supports sorting, deduplication and limits.
//
// Package diag does no formatting beyond the short one-line form; rendering
// lives in internal/diagfmt.
package diag
