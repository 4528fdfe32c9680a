package util

import "github.com/samber/mo"

// Stack keeps the screens to return to, most recent on top.
type Stack[T any] []T

func (s *Stack[T]) Push(item T) {
	*s = append(*s, item)
}

// Pop removes the top item, if there is one.
func (s *Stack[T]) Pop() mo.Option[T] {
	n := len(*s)
	if n == 0 {
		return mo.None[T]()
	}
	item := (*s)[n-1]
	*s = (*s)[:n-1]
	return mo.Some(item)
}
