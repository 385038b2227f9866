// Package mock provides test doubles for source adapters and backend clients.
//
// Every double exposes function fields that override its default behavior
// and counters that record how often it was called. Counters are atomic so
// the doubles can be shared by concurrent tests.
package mock
