// Package prompt provides simple interactive prompts.
//
// Available prompts:
//   - [Confirm]: Yes/No confirmation rendered with bubbletea on stderr
//   - [ConfirmLine]: line-based Yes/No confirmation for non-terminal input
package prompt
