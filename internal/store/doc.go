// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, allowing business rules to remain
// independent of specific database technologies or persistence details.
//
// Multi-step writes run through RunInTransaction; every store offers a
// WithTx method that binds it to the transaction.
package store
