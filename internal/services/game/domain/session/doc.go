// Package session implements the lifecycle of one two-player match.
//
// A session moves WAITING -> ACTIVE when a second player is paired, and
// ACTIVE -> TERMINATED when a move wins or fills the board. Either live state
// may also terminate directly when a participant leaves. Nothing leaves
// TERMINATED; a finished session only serves chat and status until removed.
//
// Session values are not safe for concurrent use. The registry owns every
// live session and mutates it only inside its own critical section.
package session
