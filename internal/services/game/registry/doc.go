// Package registry is the process-wide table of game sessions and player
// connections, and the only place shared game state is mutated.
//
// Every exported Registry method is one critical section under a single
// mutex: lookup, validation, mutation, and the enqueueing of every resulting
// protocol line all happen before the lock is released. Peers are expected
// to enqueue without blocking, so each participant observes broadcasts in
// exactly the order the session changed.
package registry
