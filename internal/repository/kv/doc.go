// Package kv implements the key-value persistence collaborator.
//
// Store is the contract the alarm repository depends on. FileStore keeps one
// file per key on an afero filesystem, SQLiteStore keeps a kv table in a
// SQLite database, and MemoryStore keeps values in process memory.
package kv
