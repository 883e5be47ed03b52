package comm

// Selector is a resource bitmask: bit i set means resource index i is
// addressed by the command.
type Selector uint32

// maxSelectorIndex bounds indices to the Selector width.
const maxSelectorIndex = 31

// Select builds a Selector from resource indices.
func Select(indices ...int) (Selector, error) {
	var sel Selector
	for _, index := range indices {
		if index < 0 || index > maxSelectorIndex {
			return 0, &SelectorError{Index: index}
		}
		sel |= 1 << uint(index)
	}
	return sel, nil
}

// Has checks if resource index is selected.
func (s Selector) Has(index int) bool {
	if index < 0 || index > maxSelectorIndex {
		return false
	}
	return s&(1<<uint(index)) != 0
}

// Indices enumerates selected resource indices in ascending order.
func (s Selector) Indices() []int {
	var indices []int
	for i := 0; i <= maxSelectorIndex; i++ {
		if s&(1<<uint(i)) != 0 {
			indices = append(indices, i)
		}
	}
	return indices
}
