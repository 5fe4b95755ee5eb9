// Package wren is a line-prefix template engine for code generation.
//
// The engine lives in package engine; the wren command in cmd/wren drives it
// from manifests and Go source.
package wren

// Version is the current wren release.
const Version = "0.1.0"
