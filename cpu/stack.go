package cpu

const (
	STACK_LIMIT = 16 // Maximum stack depth
)

// Stack is the bounded return address stack.
// Pointer is the index of the next free slot.
type Stack struct {
	Data    [STACK_LIMIT]uint16
	Pointer int
}

func (s *Stack) check() error {
	if s.Pointer < 0 || s.Pointer > STACK_LIMIT {
		return ErrStackPointer
	}
	return nil
}

// Push stores a return address. The stack is unchanged on error.
func (s *Stack) Push(value uint16) (err error) {
	err = s.check()
	if err != nil {
		return
	}

	if s.Full() {
		err = ErrStackOverflow
		return
	}

	s.Data[s.Pointer] = value
	s.Pointer++
	return
}

// Pop removes the most recently pushed return address.
// The stack is unchanged on error.
func (s *Stack) Pop() (value uint16, err error) {
	err = s.check()
	if err != nil {
		return
	}

	if s.Empty() {
		err = ErrStackUnderflow
		return
	}

	s.Pointer--
	value = s.Data[s.Pointer]
	return
}

// Peek returns the most recently pushed return address.
func (s *Stack) Peek() (value uint16, ok bool) {
	if s.check() != nil || s.Empty() {
		return
	}

	return s.Data[s.Pointer-1], true
}

// Empty returns true if no return addresses are stored.
func (s *Stack) Empty() bool {
	return s.Pointer == 0
}

// Full returns true if the stack holds STACK_LIMIT addresses.
func (s *Stack) Full() bool {
	return s.Pointer == STACK_LIMIT
}

// Reset clears the stack.
func (s *Stack) Reset() {
	clear(s.Data[:])
	s.Pointer = 0
}
