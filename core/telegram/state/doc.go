// Package state keeps per-chat conversation state and scratch data in memory.
// Sessions are lost on restart.
package state
