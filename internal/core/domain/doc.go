// Package domain contains the core business entities and rules for docchat.
// Domain types have no dependencies on infrastructure - they represent
// documents, chunks, collections, and conversations independent of how
// they are stored or transported.
package domain
