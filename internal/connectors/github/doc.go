// Package github indexes GitHub issues and pull requests. Documents
// are keyed by their HTML URL so that a search hit links straight to
// the conversation on github.com.
package github
