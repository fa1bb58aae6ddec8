package ecscore

import "sort"

// clauseKind distinguishes an Include clause from an Exclude clause.
type clauseKind uint8

const (
	clauseInclude clauseKind = iota
	clauseExclude
)

type clause struct {
	subject ComponentID
	kind    clauseKind
}

// Query is a compiled include/exclude predicate over a signature. Build a
// Query with a QueryBuilder; the empty query (no clauses at all) matches
// every signature, including the empty one.
type Query struct {
	clauses []clause
}

// QueryBuilder accumulates With/Without clauses before compiling them into a
// Query. Its zero value is ready to use.
type QueryBuilder struct {
	byComponent map[ComponentID]clauseKind
}

// Select returns a fresh QueryBuilder.
func Select() *QueryBuilder {
	return &QueryBuilder{byComponent: make(map[ComponentID]clauseKind)}
}

// With requires the built query to only match signatures carrying c. A
// second call for the same component, whether With or Without, overrides
// the earlier one — duplicates of the same component collapse to the last
// call.
func (b *QueryBuilder) With(c ComponentID) *QueryBuilder {
	if b.byComponent == nil {
		b.byComponent = make(map[ComponentID]clauseKind)
	}
	b.byComponent[c] = clauseInclude
	return b
}

// Without requires the built query to only match signatures lacking c.
func (b *QueryBuilder) Without(c ComponentID) *QueryBuilder {
	if b.byComponent == nil {
		b.byComponent = make(map[ComponentID]clauseKind)
	}
	b.byComponent[c] = clauseExclude
	return b
}

// Build compiles the accumulated clauses into a Query, sorted by component
// identifier so matching can run as a single linear scan.
func (b *QueryBuilder) Build() *Query {
	clauses := make([]clause, 0, len(b.byComponent))
	for c, kind := range b.byComponent {
		clauses = append(clauses, clause{subject: c, kind: kind})
	}
	sort.Slice(clauses, func(i, j int) bool { return clauses[i].subject < clauses[j].subject })
	return &Query{clauses: clauses}
}

// Matches reports whether sig satisfies every Include clause and none of
// the Exclude clauses, using a single linear scan over the query's sorted
// clauses and the signature's sorted identifiers.
func (q *Query) Matches(sig Signature) bool {
	ids := sig.IDs()
	iClause, iType := 0, 0

	for iClause < len(q.clauses) {
		c := q.clauses[iClause]

		if iType >= len(ids) {
			if c.kind == clauseInclude {
				return false
			}
			iClause++
			continue
		}

		switch {
		case ids[iType] == c.subject:
			if c.kind == clauseExclude {
				return false
			}
			iClause++
			iType++
		case ids[iType] < c.subject:
			iType++
		default: // ids[iType] > c.subject: subject absent from signature
			if c.kind == clauseInclude {
				return false
			}
			iClause++
		}
	}

	return true
}
