package rng

// Script replays a fixed list of draws. Each value is reduced modulo n, so a
// script can be written in terms of the index wanted. Once the script is
// exhausted it keeps returning 0.
//
// Script exists for tests that need to force a particular branch.
type Script struct {
	Draws []int
	pos   int
}

func (s *Script) IntN(n int) int {
	if n <= 0 {
		panic("rng: IntN called with n <= 0")
	}
	if s.pos >= len(s.Draws) {
		return 0
	}
	v := s.Draws[s.pos] % n
	if v < 0 {
		v += n
	}
	s.pos++
	return v
}
