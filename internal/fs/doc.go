// Package fs provides the filesystem operations behind atomic local writes,
// abstracted for fault injection.
//
//   - [LocalFS]: production implementation using the os package
//   - [FaultyFS]: test utility that fails writes, syncs or renames
//
// Production code should use fs.Default. Tests can inject a [FaultyFS]:
//
//	ffs := fs.NewFaultyFS(nil, fs.Fault{FailOnRename: true})
//	// inject ffs into component under test
//
// The package does not take a context.Context; blobstore.Store carries it.
package fs
