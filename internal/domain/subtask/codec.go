package subtask

import (
	"encoding/json"

	"github.com/google/uuid"
)

// wireNode is the nested-array shape the tree takes on the wire and in
// the project document's JSONB column. The arena exists only in memory;
// stored documents and API responses always carry this form.
type wireNode struct {
	ID        uuid.UUID  `json:"id"`
	Text      string     `json:"text"`
	Completed bool       `json:"completed"`
	SubTasks  []wireNode `json:"sub_tasks"`
}

// MarshalJSON encodes the forest as a nested array of nodes. An empty
// tree encodes as [], never null, so clients can iterate unconditionally.
func (t *Tree) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.wireForest())
}

// UnmarshalJSON rebuilds the arena from the nested-array shape. A null
// or empty document yields an empty tree. Duplicate node IDs indicate a
// corrupted document and are rejected.
func (t *Tree) UnmarshalJSON(data []byte) error {
	var wire []wireNode
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	t.roots = nil
	t.nodes = make(map[uuid.UUID]*record)

	// Explicit stack of (node, parent) pairs; pushing children reversed
	// keeps sibling insertion order intact.
	type frame struct {
		node   wireNode
		parent uuid.UUID
	}

	stack := make([]frame, 0, len(wire))
	for i := len(wire) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: wire[i], parent: uuid.Nil})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		id := f.node.ID
		if id == uuid.Nil {
			// Tolerate documents written before IDs were generated
			// server-side by minting one on load.
			id = uuid.New()
		}
		if _, exists := t.nodes[id]; exists {
			return ErrDuplicateNodeID
		}

		t.nodes[id] = &record{
			text:      f.node.Text,
			completed: f.node.Completed,
			parent:    f.parent,
		}

		if f.parent == uuid.Nil {
			t.roots = append(t.roots, id)
		} else {
			parent := t.nodes[f.parent]
			parent.children = append(parent.children, id)
		}

		for i := len(f.node.SubTasks) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: f.node.SubTasks[i], parent: id})
		}
	}

	return nil
}

// wireForest converts the arena to the nested shape. The conversion
// recurses over children; depth here is bounded by the same JSON nesting
// that encoding/json itself walks, so the arena's flatness is preserved
// for mutation paths where it matters.
func (t *Tree) wireForest() []wireNode {
	forest := make([]wireNode, 0, len(t.roots))
	for _, id := range t.roots {
		forest = append(forest, t.wireNodeFor(id))
	}
	return forest
}

func (t *Tree) wireNodeFor(id uuid.UUID) wireNode {
	rec := t.nodes[id]
	children := make([]wireNode, 0, len(rec.children))
	for _, childID := range rec.children {
		children = append(children, t.wireNodeFor(childID))
	}
	return wireNode{
		ID:        id,
		Text:      rec.text,
		Completed: rec.completed,
		SubTasks:  children,
	}
}
