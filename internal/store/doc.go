// Package store implements durable persistence for the progress
// aggregate over an injected key-value capability.
//
// The repository keeps two slots: a primary holding the current
// aggregate and a backup holding the previous successfully written
// payload. Every save copies the primary into the backup before
// overwriting, verifies the write, and rolls the primary back from the
// backup when verification fails. Loads that cannot decode the primary
// fall back to the backup and, when that succeeds, rewrite the primary
// to match.
//
// Payloads are encoded as JSON, gzip-compressed and base64-armored so
// any string-valued store (flat files, sqlite, an in-memory map) can
// hold them.
package store
