package logger

import (
	"context"
	"log/slog"
)

type operationKey struct{}

// ContextWithOperation returns a copy of ctx naming the operation in progress.
func ContextWithOperation(ctx context.Context, op string) context.Context {
	return context.WithValue(ctx, operationKey{}, op)
}

// OperationFromContext returns the operation stored by ContextWithOperation.
func OperationFromContext(ctx context.Context) (string, bool) {
	op, ok := ctx.Value(operationKey{}).(string)
	return op, ok && op != ""
}

// OperationExtractor is a ContextExtractor logging the operation under the key "op".
func OperationExtractor(ctx context.Context) (slog.Attr, bool) {
	op, ok := OperationFromContext(ctx)
	if !ok {
		return slog.Attr{}, false
	}
	return slog.String("op", op), true
}
