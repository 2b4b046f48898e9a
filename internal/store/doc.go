// Package store provides file-based persistence for shadowtalk's local
// state. It holds one encrypted private-key blob per username, written
// atomically and replaced wholesale, never mutated in place. All methods
// are concurrency-safe via internal locking.
package store
