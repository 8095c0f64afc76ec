// Package database provides PostgreSQL connectivity and repositories.
//
// Uses pgx for connection pooling and tern for embedded migrations.
// Repositories implement the domain interfaces: ReactionRepository owns the
// transition transaction, TargetRepository reads posts and comments with
// their aggregate counters.
package database
