package parking

import (
	"fmt"

	"github.com/emirpasic/gods/trees/binaryheap"
)

// SlotAllocator hands out the lowest-numbered vacant slot. Slot 1 is the
// one nearest to the entrance.
type SlotAllocator struct {
	capacity int
	vacant   *binaryheap.Heap
	pooled   []bool
}

func NewSlotAllocator(capacity int) *SlotAllocator {
	a := &SlotAllocator{
		capacity: capacity,
		vacant:   binaryheap.NewWithIntComparator(),
		pooled:   make([]bool, capacity+1),
	}
	for n := 1; n <= capacity; n++ {
		a.vacant.Push(n)
		a.pooled[n] = true
	}
	return a
}

// Acquire removes and returns the smallest vacant slot number. The boolean is
// false when every slot is taken.
func (a *SlotAllocator) Acquire() (int, bool) {
	v, ok := a.vacant.Pop()
	if !ok {
		return 0, false
	}
	n := v.(int)
	a.pooled[n] = false
	return n, true
}

// Release returns a slot number to the vacant pool.
func (a *SlotAllocator) Release(number int) error {
	if number < 1 || number > a.capacity {
		return fmt.Errorf("%w: slot %d outside [1, %d]", ErrInvalidRelease, number, a.capacity)
	}
	if a.pooled[number] {
		return fmt.Errorf("%w: slot %d is already vacant", ErrInvalidRelease, number)
	}
	a.vacant.Push(number)
	a.pooled[number] = true
	return nil
}

func (a *SlotAllocator) Len() int {
	return a.vacant.Size()
}
