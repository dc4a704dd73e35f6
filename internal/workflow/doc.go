// Package workflow runs console operations from selection to outcome.
//
// A Runner takes one operation at a time through the same pipeline: load
// the configuration fresh, build the request, render the invocation, ask for
// confirmation when the invocation changes the platform, invoke the backend
// and report the outcome. Any failure ends the operation, never the console.
// Each run is tracked as a status.Operation.
//
// The same Runner also serves configuration management: viewing, reloading
// and editing the document, with every edit confirmed before it is saved.
package workflow
