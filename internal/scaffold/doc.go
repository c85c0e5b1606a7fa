// Package scaffold creates new projects under the workspace root by cloning a
// template tree. It powers the "circuitkit new" command. A project directory
// that already exists is never touched: creation is refused instead of
// merging into or overwriting it. Entries matching an exclusion pattern
// (virtual environments, caches, VCS metadata) are left out of the clone.
package scaffold
