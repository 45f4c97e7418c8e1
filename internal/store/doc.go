// Package store declares the persistence contract of the tenant core:
// domain records, the Querier used by services, and transactional
// execution through Store.InTx.
//
// Implementations live in sub-packages: memory for tests and local runs,
// postgres for production.
package store
