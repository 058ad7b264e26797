// Package subtask implements the sub-task checklist tree embedded in a
// project. The tree is held as a flat arena (node ID -> record with parent
// and ordered children) rather than a recursive structure, and is converted
// to and from the nested-array JSON shape only at the persistence and API
// boundaries. All mutations address nodes by ID alone; callers never need
// to know a node's path from the root.
package subtask
