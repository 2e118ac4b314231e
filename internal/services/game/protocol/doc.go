// Package protocol defines the line-oriented text protocol spoken between
// game clients and the server.
//
// Every message is one UTF-8 line: a tag, a single space, and a payload.
// Inbound tags are matched case-insensitively; outbound tags are uppercase.
package protocol
