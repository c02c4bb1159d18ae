// Package task runs deck generation in the background.
// A bounded TaskQueue feeds a WorkerPool; tasks report their progress
// through a TaskStatus and are kept in a short-lived Registry so callers
// can poll for the outcome.
package task
