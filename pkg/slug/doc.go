// Package slug builds and validates organization slugs.
//
// A slug doubles as a DNS label when tenants are addressed by subdomain,
// so it is restricted to lowercase ASCII letters, digits and inner
// hyphens, at most 63 characters long. Make folds accents to ASCII
// ("Café Zürich" becomes "cafe-zurich") and collapses everything else
// into single hyphens.
//
//	s := slug.Make("Acme Corp.")              // "acme-corp"
//	s = slug.Make("Acme", slug.WithSuffix(6)) // "acme-x7g3k2"
//	ok := slug.Valid("acme-corp")             // true
package slug
