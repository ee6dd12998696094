// Package fieldpath reads and writes values addressed by dotted paths inside
// nested map[string]any / []any structures.
//
// Paths are validated once by Parse. Writes are copy-on-write: Set returns a
// new root in which only the maps and lists along the path were copied, so a
// reader holding the previous root keeps seeing the old values while sibling
// subtrees stay shared between both roots.
package fieldpath
