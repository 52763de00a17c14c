// Package models defines the core domain entities for the group savings
// service.
//
// # Entities
//
//   - User: a registered account, referenced everywhere else by its ID
//   - Group: a shared savings pool with a target and a running balance
//   - Membership: a (user, group) pair with an admin flag
//   - Transaction: a deposit or withdrawal recorded against a group
//
// # Ownership
//
// A Group owns its Membership and Transaction sets: deleting a group deletes
// them. Transactions are otherwise append-only history and are never deleted
// or edited after reaching a terminal status.
//
// # Design principles
//
//  1. Entities reference each other by ID string, never by pointer, to avoid
//     circular references and keep rows trivially serializable.
//  2. A group's CurrentAmount is maintained incrementally by the ledger; it
//     always equals approved deposits minus approved withdrawals.
//  3. The error sentinels in errors.go are the full failure vocabulary of the
//     domain; the transport layer maps them to status codes and never sees
//     storage internals.
package models
