package dataset

import (
	"errors"
	"fmt"

	"github.com/harrison/modelout/internal/models"
)

// ErrExhausted is returned by ReadNext once every resolved file has been read
var ErrExhausted = errors.New("no unread files left")

// Reader opens resolved files in order, consuming the result's unread queue
type Reader struct {
	result *models.ResolutionResult
	format string
	open   Opener
}

// NewReader returns a Reader over result. A nil opener uses Open.
func NewReader(result *models.ResolutionResult, format string, open Opener) *Reader {
	if open == nil {
		open = Open
	}
	return &Reader{result: result, format: format, open: open}
}

// ReadNext opens the head of the unread queue. The file is removed from the
// queue only when it opened successfully; on failure the queue is unchanged
// and the error is returned.
func (r *Reader) ReadNext() (Dataset, error) {
	path, ok := r.result.NextUnread()
	if !ok {
		return nil, ErrExhausted
	}

	ds, err := r.open(path, r.format)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	r.result.PopUnread()
	return ds, nil
}

// Remaining returns the number of files not read yet
func (r *Reader) Remaining() int {
	return len(r.result.UnreadFiles)
}
