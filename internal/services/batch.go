package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/franzego/maybunga-notifications/internal/models"
)

type sendFunc func(ctx context.Context, i int) models.DeliveryResult

// dispatchBatches fans out sends in windows of size, waits for each window, and
// pauses between windows. results[i] belongs to refs[i] and carries it as
// RecipientID. If ctx ends during a pause the remaining recipients are failed
// without being sent.
func dispatchBatches(ctx context.Context, refs []string, size int, pause time.Duration, send sendFunc) []models.DeliveryResult {
	results := make([]models.DeliveryResult, len(refs))
	if size <= 0 {
		size = 1
	}

	for start := 0; start < len(refs); start += size {
		if start > 0 {
			if err := sleepCtx(ctx, pause); err != nil {
				for i := start; i < len(refs); i++ {
					results[i] = models.DeliveryResult{
						Success:     false,
						Error:       fmt.Sprintf("bulk send cancelled: %v", err),
						RecipientID: refs[i],
					}
				}
				return results
			}
		}

		end := min(start+size, len(refs))
		var g errgroup.Group
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				results[i] = safeSend(ctx, i, send)
				results[i].RecipientID = refs[i]
				return nil
			})
		}
		_ = g.Wait()
	}
	return results
}

func safeSend(ctx context.Context, i int, send sendFunc) (res models.DeliveryResult) {
	defer func() {
		if r := recover(); r != nil {
			res = models.DeliveryResult{Success: false, Error: fmt.Sprintf("send panicked: %v", r)}
		}
	}()
	return send(ctx, i)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
