// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package inmem

import (
	"context"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	// Key is the optional configuration section of the in-memory store.
	Key = "inmem"

	DefaultSweepInterval = time.Minute
)

type Config struct {
	// SweepInterval is how often expired records are dropped.
	SweepInterval time.Duration
}

// ProvideInMem creates the in-memory store and sweeps it for the lifetime
// of the application.
func ProvideInMem(v *viper.Viper, lc fx.Lifecycle, logger *zap.Logger) (*InMem, error) {
	var config Config
	if err := v.UnmarshalKey(Key, &config); err != nil {
		return nil, err
	}
	if config.SweepInterval <= 0 {
		config.SweepInterval = DefaultSweepInterval
	}

	s := NewInMem()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				defer close(done)
				s.SweepEvery(ctx, config.SweepInterval, func(dropped int) {
					if dropped > 0 {
						logger.Debug("swept expired records", zap.Int("dropped", dropped), zap.Int("remaining", s.Len()))
					}
				})
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
	return s, nil
}

// SweepEvery runs Sweep every interval until ctx is done, reporting each
// result to onSweep when it is not nil.
func (i *InMem) SweepEvery(ctx context.Context, interval time.Duration, onSweep func(int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			dropped := i.Sweep()
			if onSweep != nil {
				onSweep(dropped)
			}
		}
	}
}
