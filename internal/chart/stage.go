package chart

// Stage holds the current layout and, while a transition runs, the one it
// replaced. It is owned by a single view and is not safe for concurrent use.
type Stage[G any] struct {
	current  *G
	previous *G
}

// Commit shifts current to previous and installs next.
func (s *Stage[G]) Commit(next *G) {
	s.previous = s.current
	s.current = next
}

func (s *Stage[G]) Current() *G  { return s.current }
func (s *Stage[G]) Previous() *G { return s.previous }

// Settle drops the previous layout once its transition has finished.
func (s *Stage[G]) Settle() {
	s.previous = nil
}

// Clear empties both slots.
func (s *Stage[G]) Clear() {
	s.current = nil
	s.previous = nil
}
