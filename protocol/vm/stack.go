package vm

// Stack is a random-access stack of items. Positions are counted
// from the top: n == 0 is the top item.
type Stack struct {
	items     []StackItem // items[len(items)-1] is the top
	underflow error
}

func newStack(underflow error) *Stack {
	return &Stack{underflow: underflow}
}

// Len returns the number of items on the stack.
func (s *Stack) Len() int {
	return len(s.items)
}

// Push puts item on top of the stack.
func (s *Stack) Push(item StackItem) {
	s.items = append(s.items, item)
}

// Peek returns the item n positions below the top.
func (s *Stack) Peek(n int) (StackItem, error) {
	if n < 0 || n >= len(s.items) {
		return nil, s.underflow
	}
	return s.items[len(s.items)-1-n], nil
}

// Pop removes and returns the top item.
func (s *Stack) Pop() (StackItem, error) {
	return s.Remove(0)
}

// Remove removes and returns the item n positions below the top.
func (s *Stack) Remove(n int) (StackItem, error) {
	item, err := s.Peek(n)
	if err != nil {
		return nil, err
	}
	i := len(s.items) - 1 - n
	copy(s.items[i:], s.items[i+1:])
	s.items[len(s.items)-1] = nil
	s.items = s.items[:len(s.items)-1]
	return item, nil
}

// Insert puts item so that it ends up n positions below the top.
// Insert(0, x) is the same as Push(x).
func (s *Stack) Insert(n int, item StackItem) error {
	if n < 0 || n > len(s.items) {
		return s.underflow
	}
	i := len(s.items) - n
	s.items = append(s.items, nil)
	copy(s.items[i+1:], s.items[i:])
	s.items[i] = item
	return nil
}

// Set replaces the item n positions below the top.
func (s *Stack) Set(n int, item StackItem) error {
	if n < 0 || n >= len(s.items) {
		return s.underflow
	}
	s.items[len(s.items)-1-n] = item
	return nil
}

// Drop discards the top n items.
func (s *Stack) Drop(n int) error {
	if n < 0 || n > len(s.items) {
		return s.underflow
	}
	for i := len(s.items) - n; i < len(s.items); i++ {
		s.items[i] = nil
	}
	s.items = s.items[:len(s.items)-n]
	return nil
}

// Items returns a copy of the stack contents, top first.
func (s *Stack) Items() []StackItem {
	res := make([]StackItem, len(s.items))
	for i, item := range s.items {
		res[len(s.items)-1-i] = item
	}
	return res
}

// Clear empties the stack.
func (s *Stack) Clear() {
	s.items = nil
}
