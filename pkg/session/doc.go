/*
Package session implements form session management and persistence orchestration.

It serializes concurrent access to a session's answers across goroutines and,
with a ports.DistributedLocker, across replicas, while delegating storage to a
ports.StateStore.
*/
package session
