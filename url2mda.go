// Package url2mda converts arbitrary web URLs into normalized, LLM-ready
// markdown. It owns a browser rendering session, routes each URL to a
// source-specific extraction strategy, caches results behind deterministic
// fingerprints, fans out batches concurrently with per-URL failure
// isolation, and optionally post-processes fresh extractions through an
// inference model.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, redis/, gemini/).
package url2mda
