// Package book holds the contact data model: validated field types, the
// per-contact Record and the name-keyed Directory with its birthday query.
//
// The package does no I/O. Persistence lives in internal/storage and user
// interaction in internal/assistant.
package book
