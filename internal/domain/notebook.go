package domain

import "fmt"

// Notebook is a Joplin folder. Children holds ids in server order.
type Notebook struct {
	ID        string
	Title     string
	ParentID  string
	NoteCount int64
	Children  []string
}

// NotebookTree is an arena of notebooks indexed by id.
type NotebookTree struct {
	byID  map[string]*Notebook
	roots []string
}

// NewNotebookTree links a flat list of notebooks by parent id. Input order is
// kept for siblings. A parent id that is not part of the list is an error.
func NewNotebookTree(flat []Notebook) (*NotebookTree, error) {
	t := &NotebookTree{byID: make(map[string]*Notebook, len(flat))}
	for i := range flat {
		nb := flat[i]
		nb.Children = nil
		if _, dup := t.byID[nb.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate notebook id %q", ErrMalformedResponse, nb.ID)
		}
		t.byID[nb.ID] = &nb
	}
	for i := range flat {
		id, parentID := flat[i].ID, flat[i].ParentID
		if parentID == "" {
			t.roots = append(t.roots, id)
			continue
		}
		parent, ok := t.byID[parentID]
		if !ok {
			return nil, fmt.Errorf("%w: notebook %q has unknown parent %q", ErrMalformedResponse, id, parentID)
		}
		parent.Children = append(parent.Children, id)
	}
	return t, nil
}

// Get returns the notebook with the given id.
func (t *NotebookTree) Get(id string) (*Notebook, bool) {
	nb, ok := t.byID[id]
	return nb, ok
}

// Parent returns the parent of nb, or false for root notebooks.
func (t *NotebookTree) Parent(nb *Notebook) (*Notebook, bool) {
	if nb.ParentID == "" {
		return nil, false
	}
	return t.Get(nb.ParentID)
}

// Roots returns the top-level notebooks.
func (t *NotebookTree) Roots() []*Notebook {
	roots := make([]*Notebook, 0, len(t.roots))
	for _, id := range t.roots {
		roots = append(roots, t.byID[id])
	}
	return roots
}

// Len returns the number of notebooks in the tree.
func (t *NotebookTree) Len() int {
	return len(t.byID)
}

// Walk visits notebooks in pre-order (each notebook, then its children)
// until fn returns false. It uses an explicit stack, so depth is unbounded.
func (t *NotebookTree) Walk(fn func(*Notebook) bool) {
	stack := make([]string, 0, len(t.roots))
	for i := len(t.roots) - 1; i >= 0; i-- {
		stack = append(stack, t.roots[i])
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nb := t.byID[id]
		if !fn(nb) {
			return
		}
		for i := len(nb.Children) - 1; i >= 0; i-- {
			stack = append(stack, nb.Children[i])
		}
	}
}

// FindByTitle returns the first notebook in pre-order whose title equals title.
func (t *NotebookTree) FindByTitle(title string) (*Notebook, bool) {
	var found *Notebook
	t.Walk(func(nb *Notebook) bool {
		if nb.Title == title {
			found = nb
			return false
		}
		return true
	})
	return found, found != nil
}
