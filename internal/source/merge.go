package source

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/hejijunhao/copilotlog/internal/model"
)

type merged []Source

// Merge combines sources into one. Notifications from different sources
// are interleaved in arrival order on a single channel. The merged
// subscription ends when every source has ended, or when any source fails.
func Merge(sources ...Source) Source {
	if len(sources) == 1 {
		return sources[0]
	}
	return merged(sources)
}

func (m merged) Subscribe(ctx context.Context) (*Subscription, error) {
	subs := make([]*Subscription, 0, len(m))
	for _, src := range m {
		sub, err := src.Subscribe(ctx)
		if err != nil {
			for _, s := range subs {
				s.Unsubscribe()
			}
			return nil, err
		}
		subs = append(subs, sub)
	}

	return Start(ctx, func(ctx context.Context, emit func(model.Notification) bool) error {
		g, gctx := errgroup.WithContext(ctx)
		for _, sub := range subs {
			g.Go(func() error {
				forward(gctx, sub, emit)
				return sub.Unsubscribe()
			})
		}
		return g.Wait()
	}), nil
}

// forward copies notifications from sub to emit until sub closes or ctx ends.
func forward(ctx context.Context, sub *Subscription, emit func(model.Notification) bool) {
	for {
		select {
		case <-ctx.Done():
			return
		case n, ok := <-sub.C():
			if !ok || !emit(n) {
				return
			}
		}
	}
}
