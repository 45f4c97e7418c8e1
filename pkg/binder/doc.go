// Package binder fills request structs from HTTP requests.
//
// JSON decodes a size-limited body strictly. Path and Query copy string
// values into fields tagged `path:"name"` and `query:"name"`; supported
// field kinds are strings, integers, booleans, and any type implementing
// encoding.TextUnmarshaler such as uuid.UUID.
//
// Every failure is an apperr BAD_REQUEST error so handlers can return it as
// is.
package binder
