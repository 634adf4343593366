// Package app assembles the storefront session.
//
// Storefront owns one instance of every component for a single shopper
// session and is constructed explicitly with its dependencies. Shopper
// actions are command values executed against it; each returns a Result
// carrying a display notice, the error if any, and where to go next. Shell
// drives a Storefront from a line-oriented terminal.
package app
