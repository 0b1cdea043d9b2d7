// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for tradie.
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (TRADIE_*), including values from a .env file
//   - ~/.tradie/config.toml
//   - Built-in defaults (struct tags)
//
// TRADIE_HOME moves the ~/.tradie directory.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := answer.NewPerplexityClient(cfg.Answer.APIKey).WithModel(cfg.Answer.Model)
//
// Dot-notation access backs the "tradie config" command:
//
//	v, _ := cfg.Get("answer.model")
//	_ = cfg.Set("ui.theme", "light")
package config
