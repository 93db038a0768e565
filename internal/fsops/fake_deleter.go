package fsops

// FakeDeleter implements Deleter for testing
// Records all delete calls without performing actual deletions.
// Paths present in Fail return their error instead.
type FakeDeleter struct {
	Calls []string
	Fail  map[string]error
}

func (f *FakeDeleter) Remove(path string) error {
	f.Calls = append(f.Calls, "rm:"+path)
	if err, ok := f.Fail[path]; ok {
		return err
	}
	return nil
}
