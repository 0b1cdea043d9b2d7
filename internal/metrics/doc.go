// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package metrics exports panel activity as Prometheus metrics.
//
// A Recorder owns its registry, so several can coexist in one process (tests
// create one each). It implements panel.Observer:
//
//	rec := metrics.New()
//	p := panel.New(client, resolver, sink, panel.WithObserver(rec))
//	http.Handle("/metrics", rec.Handler())
package metrics
