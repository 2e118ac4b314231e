// Package board models the 3x3 grid a session is played on.
//
// A Board is a plain value: it holds no locks and is mutated only through
// Place. Callers that share a Board across goroutines must serialize access
// themselves; the game registry does so for every live session.
package board
