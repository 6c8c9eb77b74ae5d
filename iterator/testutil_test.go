package iterator

import "github.com/kbukum/flowio/scheduler"

// useManualScheduler swaps the package-global scheduler for a fresh Manual
// one for the duration of a test, restoring the previous scheduler on
// return. Every constructor in this package defaults to scheduler.Get()
// when given nil, so this makes every deferred effect (readable/end/error
// emission, begin/fill/flush execution) deterministically drivable via
// Flush.
func useManualScheduler(t testingT) *scheduler.Manual {
	t.Helper()
	prev := scheduler.Get()
	m := scheduler.NewManual()
	scheduler.Set(m)
	t.Cleanup(func() { scheduler.Set(prev) })
	return m
}

// testingT is the subset of *testing.T this helper needs, so it can be used
// from any _test.go file in the package without an import cycle concern.
type testingT interface {
	Helper()
	Cleanup(func())
}
