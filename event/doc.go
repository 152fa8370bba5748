// Package event implements the shared trigger-event store.
//
// The control context records sample triggers against a musical tick
// timeline; the engine reads the events falling inside each block's tick
// range and converts them into audio-context trigger messages. Mutations
// are undoable; the store keeps events in non-decreasing tick order so the
// audio context never has to sort.
package event
