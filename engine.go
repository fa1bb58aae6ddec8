package ecscore

import (
	"context"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/argus-labs/ecscore/internal/assert"
)

// Engine holds the entity index and table index for one ECS world, plus the
// exclusivity flag that lets exactly one step run at a time. The zero value
// is not usable; construct with NewEngine.
type Engine struct {
	entities *EntityIndex
	tables   *TableIndex

	busy atomic.Bool

	logger zerolog.Logger
}

// EngineOption configures an Engine at construction time.
type EngineOption func(*Engine)

// WithLogger installs l as the engine's structured logger. The default is a
// disabled logger, matching the corpus convention of an injectable,
// off-by-default zerolog.Logger.
func WithLogger(l zerolog.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// NewEngine returns a ready-to-use Engine with an empty entity index and a
// table index containing only the empty-signature table.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		entities: NewEntityIndex(),
		tables:   NewTableIndex(),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Exists reports whether e currently identifies a live entity. Safe to call
// outside a step, between steps; the storage core only mutates during a
// step's drain phase.
func (e *Engine) Exists(entity Entity) bool {
	return e.entities.Exists(entity)
}

// Step runs body inside a transactional step. Exactly one step may be
// active across the whole engine at a time; a re-entrant or concurrent call
// fails immediately with ErrConcurrentStep without running body at all.
//
// body runs inside a supervised concurrency scope (see Step.Go): a failure
// in one launched task does not cancel its siblings, and the step does not
// proceed to its drain phase until every task, including body itself, has
// finished. If ctx is cancelled before body returns, the drain phase is
// skipped and any commands the body enqueued are discarded.
func (e *Engine) Step(ctx context.Context, body func(*Step) error) error {
	if !e.busy.CompareAndSwap(false, true) {
		return errConcurrentStep()
	}
	defer e.busy.Store(false)

	s := newStep(e, ctx)

	e.logger.Debug().Str("step_id", s.id.String()).Msg("step: acquired")

	bodyErr := s.run(body)

	if ctx.Err() != nil {
		e.logger.Debug().Str("step_id", s.id.String()).Err(ctx.Err()).
			Msg("step: cancelled, discarding deferred commands")
		return ctx.Err()
	}

	e.collect(s)
	e.logger.Debug().Str("step_id", s.id.String()).Int("commands", s.commandCount()).
		Msg("step: committed")

	return bodyErr
}

// collect runs the step's drain phase: it commits every drafted entity into
// the empty table, then applies every deferred command in enqueue order.
func (e *Engine) collect(s *Step) {
	next := Entity(s.nextDraft.Load())
	n := int(next - s.firstEntity)
	if n > 0 {
		first, last := e.entities.NewBatch(n)
		assert.That(first == s.firstEntity && last == next,
			"draft batch [%d,%d) does not match reserved range [%d,%d)", first, last, s.firstEntity, next)

		empty := e.tables.EmptyTable()
		for id := first; id < last; id++ {
			row := empty.add(id)
			e.entities.RecordUnsafe(id, empty.ID(), row)
		}
	}

	for _, cmd := range s.drainQueue() {
		e.apply(cmd)
	}
}

// apply executes a single deferred command against live engine state.
func (e *Engine) apply(cmd command) {
	switch cmd.kind {
	case cmdDestroy:
		e.applyDestroy(cmd.entity)
	case cmdAdd:
		e.applyAdd(cmd.entity, cmd.component, cmd.value)
	case cmdRemove:
		e.applyRemove(cmd.entity, cmd.component)
	case cmdSet:
		e.applySet(cmd.entity, cmd.component, cmd.value)
	default:
		assert.That(false, "unknown deferred command kind %d", cmd.kind)
	}
}

func (e *Engine) applyDestroy(entity Entity) {
	rec, ok := e.entities.Get(entity)
	if !ok {
		return // destroy is idempotent: already gone is not an error
	}
	table := e.tables.GetByID(rec.Table)
	table.remove(rec.Row)
	e.entities.Remove(entity)
}

func (e *Engine) applyAdd(entity Entity, c ComponentID, v any) {
	rec, ok := e.entities.Get(entity)
	if !ok {
		e.logger.Debug().Uint32("entity", uint32(entity)).
			Msg("add-component: entity no longer live, dropping command")
		return
	}

	oldTable := e.tables.GetByID(rec.Table)
	newTable := e.tables.ResolveWith(oldTable, c)
	newRow := newTable.add(entity)

	insertedAt := newTable.columnIndex(c)
	copyRowAdding(oldTable, newTable, rec.Row, newRow, insertedAt, v)

	oldTable.remove(rec.Row)
	e.entities.RecordUnsafe(entity, newTable.ID(), newRow)
}

func (e *Engine) applyRemove(entity Entity, c ComponentID) {
	rec, ok := e.entities.Get(entity)
	if !ok {
		e.logger.Debug().Uint32("entity", uint32(entity)).
			Msg("remove-component: entity no longer live, dropping command")
		return
	}

	oldTable := e.tables.GetByID(rec.Table)
	removedAt := oldTable.columnIndex(c)
	assert.That(removedAt >= 0, "remove-component: component %d not present on entity %d", c, entity)

	newTable := e.tables.ResolveWithout(oldTable, c)
	newRow := newTable.add(entity)

	copyRowRemoving(oldTable, newTable, rec.Row, newRow, removedAt)

	oldTable.remove(rec.Row)
	e.entities.RecordUnsafe(entity, newTable.ID(), newRow)
}

func (e *Engine) applySet(entity Entity, c ComponentID, v any) {
	rec, ok := e.entities.Get(entity)
	if !ok {
		e.logger.Debug().Uint32("entity", uint32(entity)).
			Msg("set-component: entity no longer live, dropping command")
		return
	}

	table := e.tables.GetByID(rec.Table)
	if table.signature.Contains(c) {
		table.set(rec.Row, c, v)
		return
	}
	e.applyAdd(entity, c, v)
}

// copyRowAdding copies every column of oldRow into newRow, shifted to make
// room for a newly inserted component at column insertedAt, per the
// column-shift policy that follows directly from signatures being sorted.
func copyRowAdding(oldTable, newTable *Table, oldRow, newRow, insertedAt int, value any) {
	for col := 0; col < len(newTable.columns); col++ {
		switch {
		case col == insertedAt:
			newTable.columns[col].set(newRow, value)
		case col < insertedAt:
			v, err := oldTable.columns[col].get(oldRow)
			assert.That(err == nil, "migrating add: missing source cell at column %d", col)
			newTable.columns[col].set(newRow, v)
		default:
			v, err := oldTable.columns[col-1].get(oldRow)
			assert.That(err == nil, "migrating add: missing source cell at column %d", col-1)
			newTable.columns[col].set(newRow, v)
		}
	}
}

// copyRowRemoving is the inverse of copyRowAdding: it copies every column of
// oldRow into newRow, skipping the column at removedAt.
func copyRowRemoving(oldTable, newTable *Table, oldRow, newRow, removedAt int) {
	for col := 0; col < len(newTable.columns); col++ {
		srcCol := col
		if col >= removedAt {
			srcCol = col + 1
		}
		v, err := oldTable.columns[srcCol].get(oldRow)
		assert.That(err == nil, "migrating remove: missing source cell at column %d", srcCol)
		newTable.columns[col].set(newRow, v)
	}
}

// errConcurrentStep wraps ErrConcurrentStep with a UUID-free message for
// Engine.Step's rejection path.
func errConcurrentStep() error {
	return eris.Wrap(ErrConcurrentStep, "engine.Step")
}
