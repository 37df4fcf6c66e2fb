// Tablepick - Group Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablepick

/*
Package supervisor provides process supervision for Tablepick using suture v4.

The tree isolates failures in three layers:

	RootSupervisor ("tablepick")
	├── DataSupervisor ("data-layer")
	│   └── badger-gc (Badger backend only)
	├── BackgroundSupervisor ("background-layer")
	│   └── cache-janitor
	└── APISupervisor ("api-layer")
	    └── http-server

Crashed services restart with suture's backoff. Supervisor events are logged
through sutureslog on an slog.Logger bridged to zerolog
(logging.NewSlogLogger).

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(logging.Logger()), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Supervisor.ShutdownTimeout,
	})
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, addr, timeout, logger))
	return tree.Serve(ctx)

See package services for the service implementations.
*/
package supervisor
