// Package domain contains the core entities of the kana learning
// progress engine: the per-kana item with its lifecycle state machine,
// the action union that drives transitions, and the progress aggregate
// that is persisted as a whole.
//
// Entities follow an immutability principle: transition methods return
// new values rather than mutating receivers, so previously published
// snapshots of the aggregate are never changed in place.
package domain
