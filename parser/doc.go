// Package parser recovers structured data from unreliable LLM responses.
//
// Local models frequently wrap answers in reasoning markup, emit stringified
// JSON, or only partially honor a requested schema. This package provides the
// three layers that turn such output into validated objects:
//
//   - StripThink / StripThinkDeep: remove reasoning spans ("think" tags)
//     from strings, recursively over nested values, before any JSON decoding.
//   - ParseArguments: normalize tool-call arguments that arrive either as a
//     decoded object or as a contaminated JSON string.
//   - Recovery: the ordered cascade of extraction attempts (native tool
//     calls, content-embedded call syntax, fenced JSON, marker-field objects,
//     bare objects, fenced YAML) with field-set validation supporting both
//     current and legacy field names.
//
// Recovery never fails loudly: every attempt either yields a validated object
// or steps aside, and the caller substitutes its own deterministic default
// when the whole cascade comes up empty.
package parser
