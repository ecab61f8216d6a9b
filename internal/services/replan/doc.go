// Package replan runs scheduling passes over the stored task set.
//
// A pass is triggered three ways: once at startup, nightly at a configured
// wall-clock time, and on demand (rate-limited). Triggers coalesce: a burst of
// demands while a pass is running collapses into one follow-up pass.
package replan
