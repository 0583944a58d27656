// Package store holds the planner's in-memory state containers.
//
// Each store exposes snapshot reads plus Subscribe for change notification.
// Mutations are synchronous: the new state is visible to the next read and
// listeners run after the store's lock is released, in subscription order.
// Changes to one store are saved and published in the order they were made,
// so listeners must not mutate the store they observe.
// Task and big rock stores write every change through a persister; the UI
// store and modal host are ephemeral.
package store
