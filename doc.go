/*
Package ecscore is the storage core of an Entity-Component-System runtime: the
entity index, the archetype table graph, the column-store tables, the query
matcher, and the step transaction that defers mutations so concurrent readers
see a consistent snapshot.

# Shape

An engine owns one EntityIndex and one TableIndex. Entities are grouped by
archetype — the exact set of component identifiers they carry — into Tables,
one per distinct Signature. Tables are connected by cached edges keyed by the
component added or removed, so migrating an entity between archetypes rarely
needs to touch the signature-hash map at all.

# Steps

All reads and writes happen inside a Step, obtained from Engine.Step. Reads
observe the snapshot the engine held when the step began; writes — creating
entities, adding, removing, or setting components, destroying entities — are
appended to a deferred command queue and applied, in enqueue order, only once
the step's body (and every task it launched) has returned. This is what lets
several goroutines mutate disjoint entities inside one step without locking
the storage itself: each write takes only the queue's lock, the queue is the
only thing they contend on, and it is drained by a single goroutine after the
fact.

Exactly one step may be active across an Engine at a time; a second, either
re-entrant or from another goroutine, fails immediately with
ErrConcurrentStep.

# What is out of scope

No systems scheduler, no dependency injection, no persistence or networking,
no serialization format, and no parallel query executor beyond the
concurrency contract Step itself provides. Component identifiers and values
are both opaque to the core: it is the caller's job — typically a generated
typed wrapper, see the typed subpackage — to hand back the same identifier
for the same logical component every time and to interpret the `any` a read
returns.
*/
package ecscore
