// Package meta loads configuration documents through afs, expanding
// ${env.KEY} expressions before decoding.
package meta
