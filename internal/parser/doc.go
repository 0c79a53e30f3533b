// Package parser turns free-text calendar requests into structured tasks.
//
// The Parser interface is the capability boundary around the language-model
// call: text plus a reference date in, a validated task out. The production
// implementation calls the Gemini API with a JSON response schema; tests use
// a deterministic Func instead.
package parser
