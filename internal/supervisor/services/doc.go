// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

/*
Package services provides suture.Service wrappers for Tablepick's
long-running components.

  - HTTPServerService: runs an *http.Server and shuts it down gracefully
    when its context ends (api layer).
  - PeriodicService: runs a Task on a ticker; failures are logged and
    retried on the next tick.
  - NewBadgerGCService: value-log garbage collection for the Badger store
    (data layer).
  - NewCacheJanitorService: sweeps expired pool cache entries and refreshes
    cache gauges (background layer).

Every service returns ctx.Err() on cancellation so suture treats the stop
as clean.
*/
package services
