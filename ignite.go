// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package ignite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"

	"github.com/z5labs/ignite/buffer"
	"github.com/z5labs/ignite/internal/list"
	"github.com/z5labs/ignite/internal/try"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/z5labs/ignite"

type phase int

const (
	phaseOpen phase = iota
	phaseOrganized
	phaseConsumed
)

type entryState int

const (
	stateActive entryState = iota
	stateScheduled
)

type entry struct {
	handler  *Handler
	deps     *buffer.Buffer
	pending  int
	location string
	state    entryState
}

// schedule marks the entry as having been assigned a position.
func (e *entry) schedule() {
	e.state = stateScheduled
	e.deps.Release()
	e.pending = 0
}

// recount returns how many listed dependencies have not been scheduled.
// Every listed occurrence counts, so duplicates are satisfied together.
func (e *entry) recount(scheduled map[ID]struct{}) (int, error) {
	deps, err := buffer.Words[ID](e.deps)
	if err != nil {
		return 0, err
	}
	pending := len(deps)
	for _, id := range deps {
		if _, ok := scheduled[id]; ok {
			pending--
		}
	}
	return pending, nil
}

// Option configures a [Registry].
type Option func(*Registry)

// Logger configures the [slog.Logger] used to trace the chosen
// execution order and to report violations.
func Logger(log *slog.Logger) Option {
	return func(r *Registry) {
		r.log = log
	}
}

// TracerProvider configures where spans for [Registry.Run] are recorded.
// It defaults to the global [otel.GetTracerProvider].
func TracerProvider(tp trace.TracerProvider) Option {
	return func(r *Registry) {
		r.tracer = tp.Tracer(instrumentationName)
	}
}

// Violations configures how detected violations surface.
// It defaults to [FailFast].
func Violations(p Policy) Option {
	return func(r *Registry) {
		r.policy = p
	}
}

// Registry collects handler registrations and runs them, once, in an
// order which respects their declared dependencies.
//
// Registration is safe for concurrent use. Once [Registry.Organize] or
// [Registry.Run] has been called the registry is sealed and any further
// registration is rejected.
type Registry struct {
	mu      sync.Mutex
	phase   phase
	entries *list.List[*entry]
	byID    map[ID]*entry
	names   map[ID]string
	plan    *buffer.Buffer
	planErr error

	log      *slog.Logger
	logLevel *slog.Level
	tracer   trace.Tracer
	policy   Policy
}

// New returns an empty [Registry].
func New(opts ...Option) *Registry {
	r := &Registry{
		entries: list.New[*entry](),
		byID:    make(map[ID]*entry),
		names:   make(map[ID]string),
		policy:  FailFast,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = defaultLogger(r.logLevel)
	}
	if r.tracer == nil {
		r.tracer = otel.GetTracerProvider().Tracer(instrumentationName)
	}
	return r
}

func defaultLogger(level *slog.Level) *slog.Logger {
	if level == nil {
		return slog.Default()
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// ErrNilHandler is returned when a nil [Handler], or one not created by
// [NewHandler], is registered or named as a dependency.
var ErrNilHandler = errors.New("ignite: nil handler")

// ErrSealed is returned when registering with a [Registry] which has
// already been organized.
var ErrSealed = errors.New("ignite: registry has already been organized")

// ErrConsumed is returned by any operation on a [Registry] which has
// already been run.
var ErrConsumed = errors.New("ignite: registry has already been run")

// DuplicateHandlerError occurs when the same [Handler] is registered twice.
type DuplicateHandlerError struct {
	Handler  string
	Location string
	Previous string
}

// Error implements the [builtin.error] interface.
func (e DuplicateHandlerError) Error() string {
	return fmt.Sprintf("ignite: handler %s registered at %s was already registered at %s", e.Handler, e.Location, e.Previous)
}

// RegisterError wraps every failure to register a handler.
type RegisterError struct {
	Location string
	Cause    error
}

// Error implements the [builtin.error] interface.
func (e RegisterError) Error() string {
	return fmt.Sprintf("failed to register handler at %s: %s", e.Location, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e RegisterError) Unwrap() error {
	return e.Cause
}

// Register appends a registration for h, which must run after every
// handler in deps. Listing the same dependency more than once is allowed.
//
// location is a free form diagnostic. If empty, it is derived from the
// handler name and the file and line of the caller.
func (r *Registry) Register(location string, h *Handler, deps ...*Handler) error {
	return r.register(location, h, deps, 2)
}

// RegisterIndependent appends a registration for h with no dependencies.
func (r *Registry) RegisterIndependent(location string, h *Handler) error {
	return r.register(location, h, nil, 2)
}

func (r *Registry) register(location string, h *Handler, deps []*Handler, skip int) error {
	if location == "" && h != nil {
		location = callerLocation(h, skip+1)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.add(location, h, deps)
	if err != nil {
		return r.violation(context.Background(), RegisterError{
			Location: location,
			Cause:    err,
		})
	}
	return nil
}

func (r *Registry) add(location string, h *Handler, deps []*Handler) error {
	switch r.phase {
	case phaseOrganized:
		return ErrSealed
	case phaseConsumed:
		return ErrConsumed
	}
	if !h.valid() {
		return ErrNilHandler
	}
	if prev, exists := r.byID[h.id]; exists {
		return DuplicateHandlerError{
			Handler:  h.Name(),
			Location: location,
			Previous: prev.location,
		}
	}

	ids := make([]ID, len(deps))
	for i, dep := range deps {
		if !dep.valid() {
			return ErrNilHandler
		}
		ids[i] = dep.id
	}

	e := &entry{
		handler:  h,
		deps:     buffer.FromWords(ids...),
		pending:  len(ids),
		location: location,
		state:    stateActive,
	}
	r.entries.Append(e)
	r.byID[h.id] = e
	r.names[h.id] = h.Name()
	for _, dep := range deps {
		if _, ok := r.names[dep.id]; !ok {
			r.names[dep.id] = dep.Name()
		}
	}
	return nil
}

func callerLocation(h *Handler, skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return h.Name()
	}
	return fmt.Sprintf("%s from %s:%d", h.Name(), file, line)
}

// PendingEntry describes a registration which could not be scheduled.
type PendingEntry struct {
	Handler  string
	Location string
	Missing  []string
}

// UnsatisfiableError occurs when the registered dependencies contain a
// cycle or name a handler which was never registered.
type UnsatisfiableError struct {
	Scheduled int
	Total     int
	Pending   []PendingEntry
}

// Error implements the [builtin.error] interface.
func (e UnsatisfiableError) Error() string {
	s := fmt.Sprintf("ignite: only %d of %d handlers could be ordered", e.Scheduled, e.Total)
	for _, p := range e.Pending {
		s += fmt.Sprintf("; %s waits on %v", p.Location, p.Missing)
	}
	return s
}

// OrganizeError wraps every failure to compute an execution order.
type OrganizeError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e OrganizeError) Error() string {
	return fmt.Sprintf("failed to organize handlers: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e OrganizeError) Unwrap() error {
	return e.Cause
}

// Organize computes one valid execution order without running anything.
// The returned buffer holds the handler [ID]s packed in execution order
// and can be unpacked with [IDs].
//
// Handlers which become ready during the same pass keep their
// registration order. The first call seals the registry; later calls
// return the same order.
func (r *Registry) Organize(ctx context.Context) (*buffer.Buffer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	plan, err := r.organize(ctx)
	if err != nil {
		return nil, r.violation(ctx, OrganizeError{Cause: err})
	}
	return buffer.Duplicate(plan.Bytes()), nil
}

func (r *Registry) organize(ctx context.Context) (*buffer.Buffer, error) {
	switch r.phase {
	case phaseConsumed:
		return nil, ErrConsumed
	case phaseOrganized:
		return r.plan, r.planErr
	}
	r.phase = phaseOrganized
	r.plan, r.planErr = r.computeOrder(ctx)
	return r.plan, r.planErr
}

func (r *Registry) computeOrder(ctx context.Context) (*buffer.Buffer, error) {
	total := r.entries.Len()
	out, err := buffer.Allocate(total * buffer.WidthOf[ID]())
	if err != nil {
		return nil, err
	}

	filled := 0
	scheduled := make(map[ID]struct{}, total)
	for added := true; added; {
		added = false

		for _, e := range r.entries.All() {
			if e.state != stateActive || e.pending != 0 {
				continue
			}

			err := buffer.PutWord(out, filled, e.handler.id)
			if err != nil {
				return nil, err
			}
			filled++
			added = true
			scheduled[e.handler.id] = struct{}{}

			r.log.InfoContext(
				ctx,
				fmt.Sprintf("[%d]: %s", filled, e.location),
				slog.Int("index", filled),
				slog.String("handler", e.handler.Name()),
				slog.String("location", e.location),
			)
			e.schedule()
		}

		for _, e := range r.entries.All() {
			if e.state != stateActive {
				continue
			}
			e.pending, err = e.recount(scheduled)
			if err != nil {
				return nil, err
			}
		}
	}

	if filled < total {
		return nil, r.unsatisfiable(filled, total, scheduled)
	}
	return out, nil
}

func (r *Registry) unsatisfiable(filled, total int, scheduled map[ID]struct{}) error {
	uerr := UnsatisfiableError{
		Scheduled: filled,
		Total:     total,
	}
	for _, e := range r.entries.All() {
		if e.state != stateActive {
			continue
		}

		// recount already unpacked these so the error can be ignored
		deps, _ := buffer.Words[ID](e.deps)
		var missing []string
		for _, id := range deps {
			if _, ok := scheduled[id]; ok {
				continue
			}
			missing = append(missing, r.names[id])
		}
		uerr.Pending = append(uerr.Pending, PendingEntry{
			Handler:  e.handler.Name(),
			Location: e.location,
			Missing:  missing,
		})
	}
	return uerr
}

// IDs unpacks a plan returned by [Registry.Organize].
func IDs(plan *buffer.Buffer) ([]ID, error) {
	return buffer.Words[ID](plan)
}

// Lookup resolves an [ID] to its registered [Handler].
func (r *Registry) Lookup(id ID) (*Handler, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return e.handler, true
}

// HandlerError occurs when a [Handler] fails or panics while running.
type HandlerError struct {
	Handler  string
	Location string
	Index    int
	Cause    error
}

// Error implements the [builtin.error] interface.
func (e HandlerError) Error() string {
	return fmt.Sprintf("handler %s registered at %s failed: %s", e.Handler, e.Location, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e HandlerError) Unwrap() error {
	return e.Cause
}

// RunError wraps every failure of [Registry.Run].
type RunError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e RunError) Error() string {
	return fmt.Sprintf("failed to run handlers: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e RunError) Unwrap() error {
	return e.Cause
}

type step struct {
	index    int
	handler  *Handler
	location string
}

// Run organizes the registered handlers, if not already organized, and
// invokes each one synchronously in order. Afterwards every registration
// is released, even if a handler fails or the order can not be computed.
//
// Run stops at the first failing handler. A registry can only be run once.
func (r *Registry) Run(ctx context.Context) error {
	spanCtx, span := r.tracer.Start(ctx, "ignite.Run")
	defer span.End()

	steps, err := r.consume(spanCtx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to organize handlers")
		return r.violation(spanCtx, RunError{Cause: err})
	}
	span.SetAttributes(attribute.Int("ignite.handlers", len(steps)))

	for _, s := range steps {
		err := r.runStep(spanCtx, s)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "handler failed")
			return r.violation(spanCtx, RunError{Cause: err})
		}
	}
	return nil
}

// consume seals the registry for good, resolves the order into steps
// and releases every registration.
func (r *Registry) consume(ctx context.Context) ([]step, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.phase == phaseConsumed {
		return nil, ErrConsumed
	}
	defer r.teardown()

	plan, err := r.organize(ctx)
	if err != nil {
		return nil, OrganizeError{Cause: err}
	}
	ids, err := IDs(plan)
	if err != nil {
		return nil, OrganizeError{Cause: err}
	}

	steps := make([]step, len(ids))
	for i, id := range ids {
		e := r.byID[id]
		steps[i] = step{
			index:    i + 1,
			handler:  e.handler,
			location: e.location,
		}
	}
	return steps, nil
}

// discard releases every registration without running anything.
func (r *Registry) discard() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.teardown()
}

func (r *Registry) teardown() {
	r.phase = phaseConsumed
	if r.plan != nil {
		r.plan.Release()
	}
	r.plan = nil
	r.entries.Free(func(e *entry) {
		e.deps.Release()
	})
	clear(r.byID)
	clear(r.names)
}

func (r *Registry) runStep(ctx context.Context, s step) error {
	spanCtx, span := r.tracer.Start(ctx, "ignite.handler", trace.WithAttributes(
		attribute.String("ignite.handler.name", s.handler.Name()),
		attribute.String("ignite.handler.location", s.location),
		attribute.Int("ignite.handler.index", s.index),
	))
	defer span.End()

	err := try.Call(func() error {
		if s.handler.hook == nil {
			return nil
		}
		return s.handler.hook.Run(spanCtx)
	})
	if err == nil {
		return nil
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, "handler failed")
	return HandlerError{
		Handler:  s.handler.Name(),
		Location: s.location,
		Index:    s.index,
		Cause:    err,
	}
}

func (r *Registry) violation(ctx context.Context, err error) error {
	if r.policy == FailFast {
		panic(err)
	}
	r.log.ErrorContext(ctx, "ignite violation", slog.Any("error", err))
	return err
}
