// Package verify turns free-text classifier output into verification decisions.
//
// A verification attempt runs a fixed pipeline: Normalize extracts a JSON object
// from the raw model text, ValidateMatch or ValidateClassification checks it
// against the expected schema, Evaluate derives a MatchResult and Policy.Decide
// maps that to Accepted, Rejected or Indeterminate. Every failure is confined to
// the attempt that produced it; nothing here retries or caches.
package verify
