package reqresp

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrMalformedPayload = errors.New("malformed chain payload")
	ErrLengthMismatch   = errors.New("reported length does not match chain")
)

// Config holds configuration for peer requests
type Config struct {
	RequestTimeout   time.Duration // How long a single peer request may take
	MaxResponseBytes int64         // Upper bound on a decoded response body
}

// DefaultConfig returns sensible defaults for peer requests
func DefaultConfig() Config {
	return Config{
		RequestTimeout:   5 * time.Second,
		MaxResponseBytes: 64 << 20,
	}
}

// FetchError reports a peer whose chain could not be fetched
type FetchError struct {
	Peer string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch chain from %s: %v", e.Peer, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
