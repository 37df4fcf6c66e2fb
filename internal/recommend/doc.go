// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

// Package recommend turns a group's food profiles and a pool of candidate
// restaurants into a ranked, explained shortlist.
//
// # Pipeline
//
// A run has four stages, each usable on its own:
//
//   - Aggregate merges member hard constraints (union of allergies and diets,
//     minimum of the hard caps).
//   - Filter drops candidates that violate an aggregated constraint or are
//     closed at the reference time.
//   - Scorer sums per-member cuisine, price and distance sub-scores plus a
//     rating bonus and records the reasons behind them.
//   - Rank sorts by raw score, breaks ties, truncates to the top K and
//     rescales scores to 0-100.
//
// Engine wires the stages together with logging and metrics.
//
// # Missing Data
//
// Candidates assembled from third-party place data are often incomplete.
// A candidate without any dietary or allergen information skips those
// checks and is flagged for manual verification instead. Unknown opening
// hours never exclude. A missing price tier scores as the neutral tier and a
// missing rating contributes nothing. A candidate whose distance cannot be
// resolved contributes no distance score.
//
// # Determinism
//
// The engine never reads the wall clock for scoring; the reference time is
// part of GroupContext. With the default id tie-break the output is fully
// determined by the input. The random tie-break draws from an injected,
// seeded source.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//	resp, err := engine.Recommend(ctx, recommend.Request{
//	    Profiles: profiles,
//	    Pool:     candidates,
//	    Context:  recommend.GroupContext{Now: now, Location: &center},
//	})
package recommend
