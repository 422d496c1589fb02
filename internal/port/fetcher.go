package port

import (
	"context"
	"io"
)

// Fetcher defines the interface for opening a source payload stream
type Fetcher interface {
	// Fetch opens a streamed read of the payload at url. It returns the
	// body and the declared content length (-1 when unknown). The caller
	// owns the body and must close it. Errors are classified per the
	// domain taxonomy; cancelling ctx aborts both the request and any
	// in-flight body read.
	Fetch(ctx context.Context, url string) (io.ReadCloser, int64, error)
}
