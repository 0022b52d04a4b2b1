// Package source resolves the rule documents to validate and watches them for
// changes.
//
// FileSource expands paths and doublestar glob patterns ("rules/**/*.yaml")
// on the local file system. GitSource clones or pulls a repository with
// go-git and expands the same patterns inside its working copy. Watcher
// reports debounced changes of a set of files through fsnotify.
package source
