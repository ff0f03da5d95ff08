package ollama

import "strings"

// maxRetries is the retry ceiling: 2 retries, 3 total attempts.
const maxRetries = 2

// retryState is the immutable per-attempt state. Each retry derives a new
// value rather than mutating the request, keeping every attempt reproducible.
type retryState struct {
	// attempt counts completed tries, starting at 0.
	attempt int

	// forceCPU disables GPU offload on the server, flipped on from the
	// first retry onward.
	forceCPU bool
}

// next returns the state for the following attempt.
func (s retryState) next() retryState {
	return retryState{attempt: s.attempt + 1, forceCPU: true}
}

// exhausted reports whether the retry ceiling has been reached.
func (s retryState) exhausted() bool {
	return s.attempt >= maxRetries
}

// acceleratorFaultSignatures are the substrings that identify a transient
// accelerator-driver fault in a server error. Anything else is a terminal
// transport failure and propagates immediately.
var acceleratorFaultSignatures = []string{
	"cuda error",
	"cublas",
	"ggml-cuda",
	"hip error",
	"gpu vram",
}

// isAcceleratorFault classifies an error against the known fault signatures.
func isAcceleratorFault(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, sig := range acceleratorFaultSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}
