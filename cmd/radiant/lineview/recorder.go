package lineview

import (
	"context"

	"github.com/papercomputeco/radiant/pkg/chatapi"
	"github.com/papercomputeco/radiant/widget"
)

// Recorder keeps the last backend errors, which the controller otherwise turns
// into view state, so a command can exit non-zero.
type Recorder struct {
	widget.Backend

	ChatErr  error
	ClearErr error
}

func (r *Recorder) Chat(ctx context.Context, req *chatapi.ChatRequest) (string, error) {
	reply, err := r.Backend.Chat(ctx, req)
	r.ChatErr = err
	return reply, err
}

func (r *Recorder) Clear(ctx context.Context) error {
	r.ClearErr = r.Backend.Clear(ctx)
	return r.ClearErr
}
