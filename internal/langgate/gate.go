package langgate

// Gate validates text against the language configured for one project.
// Projects without a setting accept any text.
type Gate struct {
	Store   *Store
	Project string
}

// Validate implements tracker.TextValidator.
func (g Gate) Validate(text string) error {
	if g.Store == nil {
		return nil
	}
	code, ok := g.Store.Get(g.Project)
	if !ok {
		return nil
	}
	return Validate(text, code)
}
