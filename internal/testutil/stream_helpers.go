package testutil

import (
	"context"

	"github.com/Belphemur/SeriesDumpster/internal/models"
)

// CollectStream consumes a stream until it is closed and returns every value.
// The first streamed error is returned together with the values received so far.
// This is a test helper and should not be used in production code.
func CollectStream[T any](ctx context.Context, stream <-chan models.StreamResult[T]) ([]T, error) {
	var values []T
	for {
		select {
		case result, ok := <-stream:
			if !ok {
				return values, nil
			}
			if result.Err != nil {
				return values, result.Err
			}
			values = append(values, result.Value)
		case <-ctx.Done():
			return values, ctx.Err()
		}
	}
}
