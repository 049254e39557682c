package ecs

import (
	"github.com/go-gl/mathgl/mgl32"
)

type sceneFrame struct {
	node  *SceneNode
	depth int
}

// AddChild links child under parent. Both must carry a scene node, the child
// must be unparented, and the link must not close a cycle.
func (w *World) AddChild(parent, child EntityID) error {
	if parent == child {
		return ErrSelfParent
	}
	p := w.SceneNode(parent)
	c := w.SceneNode(child)
	if p == nil || c == nil {
		return ErrNotSceneNode
	}
	if c.Parent != InvalidEntity {
		return ErrAlreadyParented
	}
	if p.ChildCount >= MaxSceneChildren {
		return ErrChildrenFull
	}
	if w.isAncestor(child, parent) {
		return ErrCycle
	}
	if p.Depth+1+w.subtreeHeight(c) > MaxSceneDepth {
		return ErrSceneTooDeep
	}

	p.Children[p.ChildCount] = child
	p.ChildCount++
	c.Parent = parent
	w.redepth(c, p.Depth+1)
	return nil
}

// RemoveChild unlinks child from parent. It fails unless parent is the
// child's recorded parent.
func (w *World) RemoveChild(parent, child EntityID) error {
	p := w.SceneNode(parent)
	c := w.SceneNode(child)
	if p == nil || c == nil {
		return ErrNotSceneNode
	}
	if c.Parent != parent {
		return ErrParentMismatch
	}
	if !removeChildID(p, child) {
		return ErrParentMismatch
	}

	c.Parent = InvalidEntity
	w.redepth(c, 0)
	return nil
}

// UpdateWorldTransforms recomputes every world matrix from the roots down:
// roots take their local matrix, children take parent.World * Local.
// Each node is visited at most once per call and traversal stops at
// MaxSceneDepth. It returns the number of nodes updated.
func (w *World) UpdateWorldTransforms() int {
	w.sceneEpoch++
	if w.sceneEpoch == 0 {
		w.sceneEpoch = 1
	}
	epoch := w.sceneEpoch

	stack := w.sceneStack[:0]
	visited := 0
	truncated := 0

	for i := range w.entities {
		e := &w.entities[i]
		if !e.Mask.Has(KindSceneNode) {
			continue
		}
		root := w.sceneNodes.Get(e.Refs[KindSceneNode])
		if root == nil || root.Parent != InvalidEntity || root.visitEpoch == epoch {
			continue
		}

		root.World = mgl32.Ident4().Mul4(root.Local)
		root.Dirty = false
		root.visitEpoch = epoch
		visited++
		stack = append(stack, sceneFrame{node: root, depth: 0})

		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if top.depth >= MaxSceneDepth {
				truncated++
				continue
			}
			for _, cid := range top.node.ChildIDs() {
				child := w.SceneNode(cid)
				if child == nil || child.visitEpoch == epoch {
					continue
				}
				child.World = top.node.World.Mul4(child.Local)
				child.Dirty = false
				child.visitEpoch = epoch
				visited++
				stack = append(stack, sceneFrame{node: child, depth: top.depth + 1})
			}
		}
	}

	if truncated > 0 {
		w.logger.Warn("scene traversal truncated", "nodes", truncated, "max_depth", MaxSceneDepth)
	}
	w.sceneStack = stack[:0]
	return visited
}

// SetLocalTransform replaces id's local matrix and marks the node dirty.
func (w *World) SetLocalTransform(id EntityID, local mgl32.Mat4) error {
	node := w.SceneNode(id)
	if node == nil {
		return ErrNotSceneNode
	}
	node.Local = local
	node.Dirty = true
	return nil
}

// SyncLocalFromTransform copies id's Transform into its scene node's local
// matrix. It reports false when id lacks either component.
func (w *World) SyncLocalFromTransform(id EntityID) bool {
	t := w.Transform(id)
	node := w.SceneNode(id)
	if t == nil || node == nil {
		return false
	}
	node.Local = t.Matrix()
	node.Dirty = true
	t.Dirty = false
	return true
}

// Parent returns id's parent, or InvalidEntity for roots and non-nodes.
func (w *World) Parent(id EntityID) EntityID {
	if node := w.SceneNode(id); node != nil {
		return node.Parent
	}
	return InvalidEntity
}

// Children returns a copy of id's children.
func (w *World) Children(id EntityID) []EntityID {
	node := w.SceneNode(id)
	if node == nil {
		return nil
	}
	return append([]EntityID(nil), node.ChildIDs()...)
}

// Roots returns every scene node without a parent, in table order.
func (w *World) Roots() []EntityID {
	var roots []EntityID
	for id := range w.Query(KindSceneNode.Bit()) {
		if w.SceneNode(id).Parent == InvalidEntity {
			roots = append(roots, id)
		}
	}
	return roots
}

// FindByName returns the first scene node, in table order, named name.
func (w *World) FindByName(name string) (EntityID, bool) {
	if name == "" {
		return InvalidEntity, false
	}
	for id := range w.Query(KindSceneNode.Bit()) {
		if w.SceneNode(id).Name == name {
			return id, true
		}
	}
	return InvalidEntity, false
}

// isAncestor reports whether a is b or one of b's ancestors.
func (w *World) isAncestor(a, b EntityID) bool {
	for cur, steps := b, 0; cur != InvalidEntity && steps <= MaxSceneDepth; steps++ {
		if cur == a {
			return true
		}
		node := w.SceneNode(cur)
		if node == nil {
			return false
		}
		cur = node.Parent
	}
	return false
}

// subtreeHeight returns the number of levels below n.
func (w *World) subtreeHeight(n *SceneNode) int {
	height := 0
	stack := []sceneFrame{{node: n, depth: 0}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.depth > height {
			height = top.depth
		}
		if top.depth > MaxSceneDepth {
			continue
		}
		for _, cid := range top.node.ChildIDs() {
			if child := w.SceneNode(cid); child != nil {
				stack = append(stack, sceneFrame{node: child, depth: top.depth + 1})
			}
		}
	}
	return height
}

// redepth sets n's depth and renumbers its subtree, marking every node dirty.
func (w *World) redepth(n *SceneNode, depth int) {
	stack := []sceneFrame{{node: n, depth: depth}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		top.node.Depth = top.depth
		top.node.Dirty = true
		if top.depth-depth > MaxSceneDepth {
			continue
		}
		for _, cid := range top.node.ChildIDs() {
			if child := w.SceneNode(cid); child != nil {
				stack = append(stack, sceneFrame{node: child, depth: top.depth + 1})
			}
		}
	}
}

// unlinkNode detaches id from its parent and promotes its children to roots.
func (w *World) unlinkNode(id EntityID) {
	node := w.SceneNode(id)
	if node == nil {
		return
	}
	if node.Parent != InvalidEntity {
		if p := w.SceneNode(node.Parent); p != nil {
			removeChildID(p, id)
		}
		node.Parent = InvalidEntity
	}
	for _, cid := range node.ChildIDs() {
		if child := w.SceneNode(cid); child != nil && child.Parent == id {
			child.Parent = InvalidEntity
			w.redepth(child, 0)
		}
	}
	node.Children = [MaxSceneChildren]EntityID{}
	node.ChildCount = 0
}

func removeChildID(p *SceneNode, child EntityID) bool {
	for i := 0; i < p.ChildCount; i++ {
		if p.Children[i] != child {
			continue
		}
		copy(p.Children[i:p.ChildCount], p.Children[i+1:p.ChildCount])
		p.ChildCount--
		p.Children[p.ChildCount] = InvalidEntity
		return true
	}
	return false
}
