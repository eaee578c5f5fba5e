package exec

// Stack is the evaluation stack of a single echo expression.
type Stack struct {
	values []Value
}

// NewStack returns a stack holding values, the last one on top.
func NewStack(values ...Value) *Stack {
	return &Stack{values: append([]Value(nil), values...)}
}

// Push puts v on top of the stack.
func (s *Stack) Push(v Value) { s.values = append(s.values, v) }

// Pop removes and returns the top value.
func (s *Stack) Pop() (Value, error) {
	v, err := s.Peek()
	if err != nil {
		return Value{}, err
	}

	s.values = s.values[:len(s.values)-1]

	return v, nil
}

// Peek returns the top value without removing it.
func (s *Stack) Peek() (Value, error) {
	if len(s.values) == 0 {
		return Value{}, ErrStackUnderflow
	}

	return s.values[len(s.values)-1], nil
}

// Len returns the number of values on the stack.
func (s *Stack) Len() int { return len(s.values) }

// Values returns a copy of the stack contents, oldest first.
func (s *Stack) Values() []Value { return append([]Value(nil), s.values...) }
