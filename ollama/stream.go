package ollama

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/synaptic-labs/brainkit/parser"
	"github.com/synaptic-labs/brainkit/provider"
)

// streamScanBuffer bounds a single NDJSON line.
const streamScanBuffer = 1024 * 1024

// Stream implements provider.Client. The channel closes after the final
// chunk; a transport or decode failure surfaces as a chunk with Err set.
func (c *Client) Stream(ctx context.Context, req provider.Request) (<-chan provider.StreamChunk, error) {
	wireReq, _ := c.buildChatRequest(req, retryState{}, true)

	streamCtx := ctx
	var cancel context.CancelFunc
	if c.cfg.RequestTimeout > 0 {
		streamCtx, cancel = context.WithTimeout(ctx, c.cfg.RequestTimeout)
	} else {
		streamCtx, cancel = context.WithCancel(ctx)
	}

	resp, err := c.send(streamCtx, "/api/chat", wireReq)
	if err != nil {
		cancel()
		return nil, provider.NewError(providerName, "stream", err, isAcceleratorFault(err))
	}

	out := make(chan provider.StreamChunk)
	go func() {
		defer close(out)
		defer cancel()
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), streamScanBuffer)

		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			var chunk chatResponse
			if err := json.Unmarshal([]byte(line), &chunk); err != nil {
				c.cfg.Logger.Warn("skipping malformed stream line",
					slog.Any("error", err))
				continue
			}
			if chunk.Error != "" {
				serverErr := &StatusError{StatusCode: resp.StatusCode, Body: chunk.Error}
				select {
				case out <- provider.StreamChunk{Err: provider.NewError(providerName, "stream", serverErr, isAcceleratorFault(serverErr))}:
				case <-streamCtx.Done():
				}
				return
			}

			sc := provider.StreamChunk{Content: chunk.Message.Content, Done: chunk.Done}
			if chunk.Done {
				usage := chunk.usage()
				sc.Usage = &usage
			}

			select {
			case out <- sc:
			case <-streamCtx.Done():
				return
			}
			if chunk.Done {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			select {
			case out <- provider.StreamChunk{Err: provider.NewError(providerName, "stream", err, false)}:
			case <-streamCtx.Done():
			}
		}
	}()

	return out, nil
}

// StreamText streams a completion and invokes onChunk for each content
// fragment, returning the accumulated text with reasoning spans removed.
// A stream that ends without a done marker still yields what arrived.
func (c *Client) StreamText(ctx context.Context, req provider.Request, onChunk func(string)) (string, error) {
	chunks, err := c.Stream(ctx, req)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for chunk := range chunks {
		if chunk.Err != nil {
			return parser.StripThink(sb.String()), chunk.Err
		}
		if chunk.Content != "" {
			sb.WriteString(chunk.Content)
			if onChunk != nil {
				onChunk(chunk.Content)
			}
		}
	}
	return parser.StripThink(sb.String()), nil
}
