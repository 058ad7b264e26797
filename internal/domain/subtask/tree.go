package subtask

import (
	"errors"

	"github.com/google/uuid"
)

// Common errors for tree operations.
var (
	// ErrNodeNotFound is returned when the addressed node (or the parent
	// of an insertion) does not exist anywhere in the tree.
	ErrNodeNotFound = errors.New("sub-task not found")

	// ErrEmptyNodeText is returned when a node is created with no text.
	ErrEmptyNodeText = errors.New("sub-task text cannot be empty")

	// ErrDuplicateNodeID is returned when a serialized tree carries the
	// same node ID twice. IDs are generated here as UUIDs, so this only
	// indicates a corrupted document.
	ErrDuplicateNodeID = errors.New("duplicate sub-task ID")
)

// Node is a read-only snapshot of a single sub-task entry.
type Node struct {
	ID        uuid.UUID
	ParentID  uuid.UUID // uuid.Nil for root nodes
	Text      string
	Completed bool
}

// Patch describes a partial update to one node. Nil fields are left
// untouched. Setting Completed to true cascades to every descendant;
// setting it to false clears only the node itself.
type Patch struct {
	Text      *string
	Completed *bool
}

// record is the arena entry for one node. Children keep insertion order;
// there is no other ordering invariant among siblings.
type record struct {
	text      string
	completed bool
	parent    uuid.UUID // uuid.Nil for roots
	children  []uuid.UUID
}

// Tree is a forest of sub-task nodes belonging to one project. A project
// has many root nodes, not one. The zero value is not usable; construct
// with NewTree or by unmarshaling.
type Tree struct {
	roots []uuid.UUID
	nodes map[uuid.UUID]*record
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{nodes: make(map[uuid.UUID]*record)}
}

// Len reports the total number of nodes across the whole forest.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Find returns the node with the given ID, or ErrNodeNotFound.
// Node IDs are unique across the whole tree, so the arena lookup is
// equivalent to the pre-order first-match search on the nested shape.
func (t *Tree) Find(id uuid.UUID) (Node, error) {
	rec, ok := t.nodes[id]
	if !ok {
		return Node{}, ErrNodeNotFound
	}
	return t.snapshot(id, rec), nil
}

// Insert creates a new incomplete, childless node and appends it to the
// parent's child list, or to the root list when parentID is uuid.Nil.
// Returns the created node, or ErrNodeNotFound when a non-nil parent
// does not resolve.
func (t *Tree) Insert(parentID uuid.UUID, text string) (Node, error) {
	if text == "" {
		return Node{}, ErrEmptyNodeText
	}

	if parentID != uuid.Nil {
		if _, ok := t.nodes[parentID]; !ok {
			return Node{}, ErrNodeNotFound
		}
	}

	id := uuid.New()
	t.nodes[id] = &record{text: text, parent: parentID}

	if parentID == uuid.Nil {
		t.roots = append(t.roots, id)
	} else {
		parent := t.nodes[parentID]
		parent.children = append(parent.children, id)
	}

	return t.snapshot(id, t.nodes[id]), nil
}

// Update applies the patch to the node with the given ID. Completing a
// node marks its entire subtree completed, unconditionally; marking it
// incomplete leaves descendants as they were. Applying the same patch
// twice yields the same tree as applying it once.
// Returns ErrNodeNotFound if the node does not exist.
func (t *Tree) Update(id uuid.UUID, patch Patch) error {
	rec, ok := t.nodes[id]
	if !ok {
		return ErrNodeNotFound
	}

	if patch.Text != nil {
		if *patch.Text == "" {
			return ErrEmptyNodeText
		}
		rec.text = *patch.Text
	}

	if patch.Completed != nil {
		if *patch.Completed {
			t.cascadeComplete(id)
		} else {
			rec.completed = false
		}
	}

	return nil
}

// Remove excises the node and its entire subtree from the tree.
// Returns ErrNodeNotFound if the node does not exist.
func (t *Tree) Remove(id uuid.UUID) error {
	rec, ok := t.nodes[id]
	if !ok {
		return ErrNodeNotFound
	}

	// Delete the whole subtree from the arena.
	stack := []uuid.UUID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if curRec, ok := t.nodes[cur]; ok {
			stack = append(stack, curRec.children...)
			delete(t.nodes, cur)
		}
	}

	// Unlink from the parent's child list or the root list.
	if rec.parent == uuid.Nil {
		t.roots = removeID(t.roots, id)
	} else if parent, ok := t.nodes[rec.parent]; ok {
		parent.children = removeID(parent.children, id)
	}

	return nil
}

// Walk visits every node in pre-order (node before children, siblings in
// insertion order) and stops early if fn returns false.
func (t *Tree) Walk(fn func(Node) bool) {
	// Explicit stack; push children reversed so the leftmost pops first.
	stack := make([]uuid.UUID, len(t.roots))
	for i, id := range t.roots {
		stack[len(t.roots)-1-i] = id
	}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		rec, ok := t.nodes[id]
		if !ok {
			continue
		}

		if !fn(t.snapshot(id, rec)) {
			return
		}

		for i := len(rec.children) - 1; i >= 0; i-- {
			stack = append(stack, rec.children[i])
		}
	}
}

// cascadeComplete marks the node and every descendant completed.
func (t *Tree) cascadeComplete(id uuid.UUID) {
	stack := []uuid.UUID{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if rec, ok := t.nodes[cur]; ok {
			rec.completed = true
			stack = append(stack, rec.children...)
		}
	}
}

// snapshot builds the exported view of one arena record.
func (t *Tree) snapshot(id uuid.UUID, rec *record) Node {
	return Node{
		ID:        id,
		ParentID:  rec.parent,
		Text:      rec.text,
		Completed: rec.completed,
	}
}

// removeID returns ids with the first occurrence of id removed,
// preserving order.
func removeID(ids []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for i, candidate := range ids {
		if candidate == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
