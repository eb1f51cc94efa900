package wrap

import (
	"context"
	"errors"
)

// Error attaches the LogCtx found in ctx to err. A nil err stays nil.
func Error(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	// already wrapped: refresh the context only
	var e *errorWithLogCtx
	if errors.As(err, &e) {
		if x, ok := ctx.Value(LogCtxKey).(LogCtx); ok {
			e.logCtx = x
		}
		return err
	}

	return &errorWithLogCtx{
		err:    err,
		logCtx: fromCtx(ctx),
	}
}
