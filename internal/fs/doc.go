// Package fs abstracts the file operations of the local blob store so tests
// can inject I/O failures.
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("adverse-events.json", fs.Fault{FailAfterBytes: -1, FailOnSync: true})
package fs
