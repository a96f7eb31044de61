package palette

// NavigationStack records the palettes a user branched away from so that
// "go back" can return to them. The zero value is ready to use. It is not
// safe for concurrent use.
type NavigationStack struct {
	stack   []*Palette
	current *Palette
}

// Current returns the palette being shown, or nil.
func (n *NavigationStack) Current() *Palette { return n.current }

// SetCurrent shows p without touching the stack.
func (n *NavigationStack) SetCurrent(p *Palette) { n.current = p }

// Push adds p to the top of the stack.
func (n *NavigationStack) Push(p *Palette) { n.stack = append(n.stack, p) }

// Pop removes and returns the top of the stack, or nil when empty.
func (n *NavigationStack) Pop() *Palette {
	if len(n.stack) == 0 {
		return nil
	}
	top := n.stack[len(n.stack)-1]
	n.stack[len(n.stack)-1] = nil
	n.stack = n.stack[:len(n.stack)-1]
	return top
}

// Peek returns the top of the stack without removing it, or nil when empty.
func (n *NavigationStack) Peek() *Palette {
	if len(n.stack) == 0 {
		return nil
	}
	return n.stack[len(n.stack)-1]
}

// Empty reports whether the stack holds no palettes.
func (n *NavigationStack) Empty() bool { return len(n.stack) == 0 }

// Size returns the number of palettes on the stack.
func (n *NavigationStack) Size() int { return len(n.stack) }

// BranchTo pushes the current palette and shows p.
func (n *NavigationStack) BranchTo(p *Palette) {
	if n.current != nil {
		n.Push(n.current)
	}
	n.current = p
}

// GoBack shows the palette on top of the stack.
func (n *NavigationStack) GoBack() (*Palette, error) {
	p := n.Pop()
	if p == nil {
		return nil, ErrEmptyStack
	}
	n.current = p
	return p, nil
}

// FlushReset empties the stack and shows home.
func (n *NavigationStack) FlushReset(home *Palette) {
	clear(n.stack)
	n.stack = n.stack[:0]
	n.current = home
}
