// Package report renders scan results as grouped text or JSON.
//
// The summary always covers every scanned repository, even when a
// [Filter] narrows the repositories that are shown.
package report
