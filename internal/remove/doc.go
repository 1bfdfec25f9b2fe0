// Package remove deletes repositories that a scan classified as deletable.
//
// The [Executor] confirms once for the whole batch, then handles each
// candidate in turn: it re-checks the repository, because its state may have
// changed since the scan, and only then removes it permanently or moves it
// to the trash. A failure on one candidate never stops the batch.
package remove
