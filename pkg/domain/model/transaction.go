package model

import "context"

// TransactionalClient scopes a group of repository calls to a single storage
// transaction: either every write inside fn commits, or none of them do.
type TransactionalClient interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
