// Package postgres implements store.Store on PostgreSQL through pgx/v5.
//
// Schema lives in the embedded goose migrations. Uniqueness and
// referential rules are enforced by constraints and mapped onto
// store.ErrDuplicate and store.ErrReference; LockOrganization and
// LockInvitation take row locks with SELECT ... FOR UPDATE.
package postgres
