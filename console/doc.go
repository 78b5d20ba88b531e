// Package console renders bucketctl results and talks to the user's
// terminal.
//
// A Formatter prints listings, upload and download results either as the
// plain text users of the tool expect or as indented JSON for scripts.
// PromptUI implements bucketctl.Prompter on top of promptui and reports an
// interrupted prompt as bucketctl.ErrCancelled.
package console
