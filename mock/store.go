package mock

// Store is a test double for chatbot.Store.
// Set the function fields for the methods you need.
type Store struct {
	LoadFn  func() (string, error)
	SaveFn  func(threadID string) error
	ClearFn func() error
}

// Load delegates to LoadFn.
func (s *Store) Load() (string, error) {
	return s.LoadFn()
}

// Save delegates to SaveFn.
func (s *Store) Save(threadID string) error {
	return s.SaveFn(threadID)
}

// Clear delegates to ClearFn.
func (s *Store) Clear() error {
	return s.ClearFn()
}
