// Package brainkit is a Go toolkit for driving local open-weight language
// models behind an Ollama-compatible server, with the response salvage and
// decision plumbing a cognitive pipeline needs when those models misbehave.
//
// Subpackages:
//
//   - provider: client abstraction, registry, request/response types, and
//     the shared error taxonomy
//   - ollama: the completion gateway (chat, streaming, embeddings, tool
//     calling with instruction emulation and accelerator-fault retry)
//   - parser: reasoning-span cleanup, tool-argument parsing, and the
//     cascading structured-output recovery pipeline
//   - modelcfg: per-model override tables loaded from TOML with live reload
//   - schema: tool schema registry with struct reflection
//   - prompt: the template engine and the built-in prompt pairs
//   - collapse: the collapse strategy decider with its heuristic fallback
//   - signal: activation extraction from user queries
package brainkit
