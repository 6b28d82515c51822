// Package report renders planner runs for the terminal: a styled summary,
// diagnostic charts of the per-iteration rollout costs and distance to the
// goal, and JSON export to a writer.
package report
