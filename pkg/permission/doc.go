// Package permission holds the process-wide permission catalog and the
// ability expander.
//
// A Catalog is an immutable directed graph of permission keys in the form
// "resource:action". Edges point from a key to the keys it implies, e.g.
// "invoice:edit" implies "invoice:view". Build it once at startup and share
// the pointer; nothing mutates it afterwards.
//
//	cat := permission.Default()
//	set, err := cat.Expand("invoice:create", "customer:*")
//	// set = {invoice:create, invoice:view, customer:view, customer:create, customer:edit, customer:delete}
//
// Tokens passed to Expand are either literal keys or wildcards ("resource:*"
// or "*"). Expansion follows dependency edges transitively and reports
// ErrDependencyCycle instead of looping.
package permission
