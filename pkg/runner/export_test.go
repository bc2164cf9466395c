package runner

// SetIDFunc replaces the scratch notebook id generator for tests.
// this file is only compiled during test builds (`go test`).
func (r *Runner) SetIDFunc(f func() string) {
	r.newID = f
}

// TestConfig returns the effective runner configuration.
func (r *Runner) TestConfig() Config {
	return r.cfg
}
