// Package provider defines the normalized request/response types and client
// interface for local LLM gateways.
//
// The package is intentionally server-agnostic: it models a chat completion
// as an immutable Request going in and a normalized Envelope coming out,
// regardless of whether the serving model supports native tool invocation.
// Gateways that emulate tools through prompt instructions still surface their
// results as Envelope.ToolCalls, so callers never branch on model family.
//
// # Usage
//
// Create a client using the registry:
//
//	client, err := provider.New("ollama", provider.Config{
//	    BaseURL: "http://localhost:11434",
//	    Model:   "llama3.2",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
package provider

import "context"

// Client is the unified interface for local LLM gateways.
// Implementations must be safe for concurrent use.
type Client interface {
	// Complete sends a request and returns the normalized response envelope.
	// The context controls cancellation and timeouts.
	Complete(ctx context.Context, req Request) (*Envelope, error)

	// Stream sends a request and returns a channel of response chunks.
	// The channel is closed when streaming completes (check chunk.Done).
	// Errors during streaming are returned via chunk.Err.
	Stream(ctx context.Context, req Request) (<-chan StreamChunk, error)

	// Provider returns the provider name (e.g. "ollama").
	Provider() string

	// Capabilities returns what this gateway supports.
	Capabilities() Capabilities

	// Close releases any resources held by the client.
	Close() error
}

// Embedder computes embedding vectors on gateways that expose an
// embeddings endpoint.
type Embedder interface {
	// Embed returns one embedding vector per input text.
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Capabilities describes what a gateway supports.
type Capabilities struct {
	// Streaming indicates support for incremental responses.
	Streaming bool `json:"streaming"`

	// Tools indicates support for tool calling, native or emulated.
	Tools bool `json:"tools"`

	// Embeddings indicates the gateway exposes an embeddings endpoint.
	Embeddings bool `json:"embeddings"`
}
