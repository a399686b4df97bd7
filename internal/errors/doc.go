// Package errors provides structured, actionable error messages for weft.
//
// Every error carries a code that maps to a registered template with a
// category, a short message and a longer explanation. Errors can be
// enriched with the node they were raised on, a suggestion, and a wrapped
// cause, and render either as a colored terminal block, a single line, or
// JSON for the inspector.
//
// # Error Categories
//
//   - directive: attribute-name directives that could not be parsed or bound
//   - binding: handler or binding lookups that failed on a component
//   - scope: construction scope misuse (unbalanced exit, missing root)
//   - source: reactive sources that could not be subscribed or written
//   - attribute: attribute access refused by a node kind
//   - style: style assignment refused by the platform
//   - config: weft.json / weft.yaml problems
//   - snapshot: snapshot capture and storage
//   - cli: command line usage
//
// # Usage
//
//	err := errors.New("W020").
//	    WithNode(12, "button").
//	    WithSuggestion("Register the handler with component.WithHandler")
package errors
