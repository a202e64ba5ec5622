// Package ports defines the driven-port interfaces of Arbor: the model
// backend contract and the persistence contracts for conversations and
// training checkpoints. Adapters under pkg/adapters and internal/adapters
// implement them.
package ports
