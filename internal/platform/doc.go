// Package platform provides cross-platform filesystem operations: permission
// changes that are a no-op on Windows, an existence check that does not
// follow links, and a move that renames when it can and copies when it must.
package platform
