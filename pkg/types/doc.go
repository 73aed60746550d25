// Package types defines the Tracker, repository, Medium and Sink interfaces,
// the KPI and entry entity types, and the standard errors for kpitrack.
//
// See internal/tracker for the implementation wired behind Tracker.
package types
