// Package object defines the heap-allocated object kinds that make up the
// language's reference types: strings, functions, closures, upvalues,
// classes, instances, bound methods, and natives (§3, §4.2).
//
// Every type here embeds value.Header as its first field, which both
// supplies the value.Obj interface (ObjKind, Marked, Next, Size) via
// promoted methods and lets the nanbox Value encoding recover a concrete
// pointer from a bare address, since the Header's address is the object's
// address. Allocation, tracing and the intern table live in package gc and
// package table; this package only describes the shapes. Each file below
// registers its own kind's reifier (used only by the nanbox build) from an
// init func, since package value cannot import package object.
package object
