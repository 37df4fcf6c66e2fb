// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/tomtom215/tablepick/internal/metrics"
)

// ValueLogCollector is satisfied by *badger.DB.
type ValueLogCollector interface {
	RunValueLogGC(discardRatio float64) error
}

// maxGCRounds bounds the rewrites done in one run.
const maxGCRounds = 16

// NewBadgerGCService periodically rewrites Badger value-log files whose
// discardable share exceeds discardRatio.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBadgerGCService(db ValueLogCollector, discardRatio float64, interval time.Duration, logger zerolog.Logger) *PeriodicService {
	task := func(ctx context.Context) error {
		return collectValueLog(ctx, db, discardRatio, logger)
	}
	return NewPeriodicService("badger-gc", task, PeriodicConfig{Interval: interval}, logger)
}

// collectValueLog calls RunValueLogGC until Badger reports nothing left to
// rewrite. ErrRejected (in-memory or closing database) ends the run quietly.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func collectValueLog(ctx context.Context, db ValueLogCollector, discardRatio float64, logger zerolog.Logger) error {
	start := time.Now()
	rewrites := 0
	var err error
	for rewrites < maxGCRounds {
		if ctxErr := ctx.Err(); ctxErr != nil {
			break
		}
		if err = db.RunValueLogGC(discardRatio); err != nil {
			break
		}
		rewrites++
	}

	switch {
	case err == nil, errors.Is(err, badger.ErrNoRewrite), errors.Is(err, badger.ErrRejected):
		err = nil
	default:
		err = fmt.Errorf("value log gc: %w", err)
	}
	metrics.RecordStoreOperation("badger", "value_log_gc", time.Since(start), err)
	if rewrites > 0 {
		logger.Info().Int("rewrites", rewrites).Dur("duration", time.Since(start)).Msg("Badger value log compacted")
	}
	return err
}
