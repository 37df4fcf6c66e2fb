// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Sweeper drops expired entries. *cache.Cache satisfies it.
type Sweeper interface {
	Name() string
	Cleanup() int
}

// NewCacheJanitorService sweeps expired entries from every cache on each
// tick. Cleanup also refreshes the cache size gauges.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCacheJanitorService(interval time.Duration, logger zerolog.Logger, caches ...Sweeper) *PeriodicService {
	task := func(ctx context.Context) error {
		for _, c := range caches {
			if err := ctx.Err(); err != nil {
				return err
			}
			if removed := c.Cleanup(); removed > 0 {
				logger.Debug().Str("cache", c.Name()).Int("removed", removed).Msg("expired cache entries swept")
			}
		}
		return nil
	}
	return NewPeriodicService("cache-janitor", task, PeriodicConfig{Interval: interval}, logger)
}
