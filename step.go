package ecscore

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
)

type commandKind uint8

const (
	cmdDestroy commandKind = iota
	cmdAdd
	cmdRemove
	cmdSet
)

// command is one deferred mutation, enqueued during a step's body and
// applied during its drain phase in enqueue order.
type command struct {
	kind      commandKind
	entity    Entity
	component ComponentID
	value     any
}

// Step is the scope handed to a step's body. Reads on a Step bypass the
// deferred-command queue and observe the snapshot the engine held when the
// step began; writes are appended to the queue and applied only once the
// body, and every task it launched via Go, has returned.
//
// A Step must not be retained past the body that received it; the engine
// reuses the busy flag it holds for the next caller as soon as Step exits.
type Step struct {
	engine *Engine
	ctx    context.Context
	id     uuid.UUID

	firstEntity Entity
	nextDraft   atomic.Uint32

	queueMu sync.Mutex
	queue   []command

	group *errgroup.Group
}

// newStep prepares a step scope: it records first_entity from the engine's
// entity index without advancing it, and stamps the step with a UUID used
// only for log correlation.
func newStep(e *Engine, ctx context.Context) *Step {
	first := e.entities.Draft()
	s := &Step{
		engine:      e,
		ctx:         ctx,
		id:          uuid.New(),
		firstEntity: first,
		group:       &errgroup.Group{},
	}
	s.nextDraft.Store(uint32(first))
	return s
}

// run launches body as the first task in the step's supervised concurrency
// scope and waits for it, and everything it launched via Go, to finish.
func (s *Step) run(body func(*Step) error) error {
	s.group.Go(func() error { return body(s) })
	return s.group.Wait()
}

// commandCount returns the number of commands currently queued, for
// logging.
func (s *Step) commandCount() int {
	s.queueMu.Lock()
	defer s.queueMu.Unlock()
	return len(s.queue)
}

// drainQueue returns and clears the queued commands, in enqueue order.
func (s *Step) drainQueue() []command {
	s.queueMu.Lock()
	defer s.queueMu.Unlock()
	q := s.queue
	s.queue = nil
	return q
}

func (s *Step) enqueue(cmd command) {
	s.queueMu.Lock()
	s.queue = append(s.queue, cmd)
	s.queueMu.Unlock()
}

// Context returns the context the step was started with, so a long-running
// task launched via Go can observe cancellation cooperatively.
func (s *Step) Context() context.Context {
	return s.ctx
}

// Go launches fn as an additional task in the step's supervised concurrency
// scope. The step does not proceed to its drain phase until fn returns; a
// non-nil error from fn does not cancel any sibling task already running.
func (s *Step) Go(fn func() error) {
	s.group.Go(fn)
}

// NewEntity reserves the next draft identifier and returns it immediately,
// without yet placing it in any table — that happens for the whole batch of
// entities drafted during the step, all at once, when the step's drain
// phase begins. Exists and the component-read methods report false/error
// for an identifier returned by NewEntity until the step that drafted it
// has ended.
func (s *Step) NewEntity() Entity {
	return Entity(s.nextDraft.Add(1) - 1)
}

// Exists reports whether e resolves to a live entity in the pre-step
// snapshot.
func (s *Step) Exists(e Entity) bool {
	return s.engine.entities.Exists(e)
}

// HasComponent reports whether e carries component c in the pre-step
// snapshot.
func (s *Step) HasComponent(e Entity, c ComponentID) bool {
	rec, ok := s.engine.entities.Get(e)
	if !ok {
		return false
	}
	return s.engine.tables.GetByID(rec.Table).signature.Contains(c)
}

// GetComponent returns the value of component c on entity e from the
// pre-step snapshot. It fails with ErrInvalidEntity if e is not live, or
// ErrMissingComponent if e does not carry c.
func (s *Step) GetComponent(e Entity, c ComponentID) (any, error) {
	rec, ok := s.engine.entities.Get(e)
	if !ok {
		return nil, eris.Wrapf(ErrInvalidEntity, "entity %d", e)
	}
	table := s.engine.tables.GetByID(rec.Table)
	if !table.signature.Contains(c) {
		return nil, eris.Wrapf(ErrMissingComponent, "component %d on entity %d", c, e)
	}
	return table.get(rec.Row, c)
}

// GetComponentOrNone is GetComponent without the error: it returns the
// value and true, or the zero value and false if e is not live or does not
// carry c.
func (s *Step) GetComponentOrNone(e Entity, c ComponentID) (any, bool) {
	v, err := s.GetComponent(e, c)
	if err != nil {
		return nil, false
	}
	return v, true
}

// DestroyEntity defers e's destruction to the drain phase. Destroying an
// entity that is already destroyed, or was never allocated, is not an
// error: the command is simply a no-op when it is applied.
func (s *Step) DestroyEntity(e Entity) {
	s.enqueue(command{kind: cmdDestroy, entity: e})
}

// AddComponent defers writing v for component c on entity e. It validates
// eagerly against the pre-step snapshot: ErrInvalidEntity if e is not live,
// ErrDuplicateComponent if e already carries c.
func (s *Step) AddComponent(e Entity, c ComponentID, v any) error {
	rec, ok := s.engine.entities.Get(e)
	if !ok {
		return eris.Wrapf(ErrInvalidEntity, "entity %d", e)
	}
	if s.engine.tables.GetByID(rec.Table).signature.Contains(c) {
		return eris.Wrapf(ErrDuplicateComponent, "component %d on entity %d", c, e)
	}
	s.enqueue(command{kind: cmdAdd, entity: e, component: c, value: v})
	return nil
}

// RemoveComponent defers removing component c from entity e. It validates
// eagerly against the pre-step snapshot: ErrInvalidEntity if e is not live,
// ErrMissingComponent if e does not carry c.
func (s *Step) RemoveComponent(e Entity, c ComponentID) error {
	rec, ok := s.engine.entities.Get(e)
	if !ok {
		return eris.Wrapf(ErrInvalidEntity, "entity %d", e)
	}
	if !s.engine.tables.GetByID(rec.Table).signature.Contains(c) {
		return eris.Wrapf(ErrMissingComponent, "component %d on entity %d", c, e)
	}
	s.enqueue(command{kind: cmdRemove, entity: e, component: c})
	return nil
}

// SetComponent defers writing v for component c on entity e. Unlike
// AddComponent it never fails for a component already present: at drain
// time it writes in place if c is already on the entity, or degrades to an
// AddComponent migration if it is not.
func (s *Step) SetComponent(e Entity, c ComponentID, v any) error {
	if _, ok := s.engine.entities.Get(e); !ok {
		return eris.Wrapf(ErrInvalidEntity, "entity %d", e)
	}
	s.enqueue(command{kind: cmdSet, entity: e, component: c, value: v})
	return nil
}

// ForEach calls fn once for every entity whose table matches q, in the
// pre-step snapshot. It stops and returns the first error fn produces.
func (s *Step) ForEach(q *Query, fn func(Entity) error) error {
	return s.engine.tables.Iter(func(t *Table) error {
		if !q.Matches(t.signature) {
			return nil
		}
		return t.Range(func(_ int, e Entity) error { return fn(e) })
	})
}
