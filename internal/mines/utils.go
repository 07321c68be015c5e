package mines

import "github.com/sirupsen/logrus"

var Log = logrus.New()

const (
	todoIdle = -2 // never queued
	todoEnd  = -1
)

// celltodo is a FIFO of cell indexes threaded through a per-cell next
// array. A cell is queued at most once per todo list.
type celltodo struct {
	next       []int
	head, tail int
}

func newCelltodo(n int) *celltodo {
	next := make([]int, n)
	for i := range next {
		next[i] = todoIdle
	}
	return &celltodo{next: next, head: todoEnd, tail: todoEnd}
}

func (std *celltodo) add(i int) {
	if std.next[i] != todoIdle {
		return
	}
	if std.tail >= 0 {
		std.next[std.tail] = i
	} else {
		std.head = i
	}
	std.tail = i
	std.next[i] = todoEnd
}

func (std *celltodo) empty() bool { return std.head < 0 }

func (std *celltodo) pop() int {
	i := std.head
	std.head = std.next[i]
	if std.head < 0 {
		std.tail = todoEnd
	}
	return i
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
