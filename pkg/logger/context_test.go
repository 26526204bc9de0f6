package logger_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/rulekit/pkg/logger"
)

func TestOperationExtractor(t *testing.T) {
	t.Run("missing operation", func(t *testing.T) {
		_, ok := logger.OperationExtractor(context.Background())
		assert.False(t, ok)

		_, ok = logger.OperationExtractor(logger.ContextWithOperation(context.Background(), ""))
		assert.False(t, ok)
	})

	t.Run("logs the operation", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithOutput(buf),
			logger.WithContextExtractors(logger.OperationExtractor),
		)

		ctx := logger.ContextWithOperation(context.Background(), "save")
		op, ok := logger.OperationFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, "save", op)

		log.InfoContext(ctx, "saved")
		assert.Equal(t, "save", decode(t, buf)["op"])
	})
}
