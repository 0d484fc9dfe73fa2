package brackets

// NestedArray is either a flat run of items or a list of nested arrays.
type NestedArray[T any] struct {
	items    []T
	children []NestedArray[T]
	nested   bool
}

func Single[T any](items []T) NestedArray[T] {
	return NestedArray[T]{items: items}
}

func Nested[T any](children []NestedArray[T]) NestedArray[T] {
	return NestedArray[T]{children: children, nested: true}
}

func (a NestedArray[T]) IsNested() bool { return a.nested }

func (a NestedArray[T]) Items() []T { return a.items }

func (a NestedArray[T]) Children() []NestedArray[T] { return a.children }

func (a NestedArray[T]) Len() int {
	if a.nested {
		return len(a.children)
	}
	return len(a.items)
}

// Nest folds the array into single-elimination seeding order: entry i is paired
// with entry n-1-i, and the resulting groups are paired the same way until two
// groups remain. Arrays of length <= 2, or of a length that is not a power of
// two, are returned unchanged.
func (a NestedArray[T]) Nest() NestedArray[T] {
	if !foldable(a.Len()) {
		return a
	}

	current := a
	for current.Len() > 2 {
		current = current.pairUp()
	}
	return current
}

// NestFlat is Nest followed by Flatten without keeping the final nesting.
func (a NestedArray[T]) NestFlat() []T {
	if !foldable(a.Len()) {
		return a.Flatten()
	}

	current := a
	for current.Len() > 2 {
		current = current.pairUp()
	}
	return current.Flatten()
}

// Flatten lists the leaves left to right. The walk uses an explicit stack so
// deep nestings do not grow the call stack.
func (a NestedArray[T]) Flatten() []T {
	out := make([]T, 0)
	stack := []NestedArray[T]{a}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !top.nested {
			out = append(out, top.items...)
			continue
		}
		for i := len(top.children) - 1; i >= 0; i-- {
			stack = append(stack, top.children[i])
		}
	}
	return out
}

func (a NestedArray[T]) pairUp() NestedArray[T] {
	n := a.Len()
	pairs := make([]NestedArray[T], 0, n/2)
	for i := 0; i < n/2; i++ {
		if a.nested {
			pairs = append(pairs, Nested([]NestedArray[T]{a.children[i], a.children[n-1-i]}))
		} else {
			pairs = append(pairs, Single([]T{a.items[i], a.items[n-1-i]}))
		}
	}
	return Nested(pairs)
}

func foldable(n int) bool {
	return n > 2 && isPowerOfTwo(n)
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func nextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
