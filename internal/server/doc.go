// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server exposes the panel over HTTP for dashboards and other tools.
//
// # Endpoints
//
//   - GET /health        - Health check
//   - GET /v1/symbol     - Latest broadcast symbol as JSON
//   - GET /v1/symbol/ws  - WebSocket push of each broadcast symbol
//   - GET /panel         - Read-only HTML view of the conversation
//   - GET /metrics       - Prometheus metrics
//
// Every route is read-only. Queries are only submitted from the terminal.
//
// # Usage
//
//	srv := server.New("127.0.0.1:8787",
//		server.WithSymbols(bus),
//		server.WithPanel(p),
//		server.WithMetrics(rec),
//	)
//	go srv.Start()
//	defer srv.Shutdown(ctx)
package server
