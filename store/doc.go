// Package store holds the process-wide lookup stores: read-only patient
// records, the appointment calendar (in-memory and sqlite-backed), the
// static cardiology knowledge base, and the redis-backed session context.
// Stores are explicitly constructed and dependency-injected; the in-memory
// implementations are mutex-guarded for concurrent request handling.
package store
