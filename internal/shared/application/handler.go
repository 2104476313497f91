package application

import "context"

// Command represents a request that modifies system state.
type Command interface {
	CommandName() string
}

// Query represents a request that reads system state.
type Query interface {
	QueryName() string
}

// CommandHandler handles a specific command type and returns its result.
type CommandHandler[C Command, R any] interface {
	Handle(ctx context.Context, cmd C) (R, error)
}

// QueryHandler handles a specific query type.
type QueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}
