package dynamo

// Sequence is a fixed-length nominal control sequence. Element 0 is the
// control applied next. The backing array is allocated once; Shift rotates
// the head index instead of moving elements.
type Sequence struct {
	buf  []Vec2
	head int
}

// NewSequence returns an all-zero sequence of length n.
func NewSequence(n int) *Sequence {
	return &Sequence{buf: make([]Vec2, n)}
}

func (s *Sequence) Len() int { return len(s.buf) }

func (s *Sequence) index(j int) int {
	if j < 0 || j >= len(s.buf) {
		panic("dynamo: sequence index out of range")
	}
	return (s.head + j) % len(s.buf)
}

func (s *Sequence) At(j int) Vec2 { return s.buf[s.index(j)] }

func (s *Sequence) Set(j int, u Vec2) { s.buf[s.index(j)] = u }

// Shift drops the first control, moves every later control one slot
// forward and appends a zero control at the end.
func (s *Sequence) Shift() {
	if len(s.buf) == 0 {
		return
	}
	s.buf[s.head] = Vec2{}
	s.head = (s.head + 1) % len(s.buf)
}
