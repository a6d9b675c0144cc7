package validator

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/dmitrymomot/rulekit/internal/typecache"
	"github.com/dmitrymomot/rulekit/pkg/logger"
	"github.com/dmitrymomot/rulekit/pkg/rules"
)

// Registry holds declared field rules per type and the validators compiled
// from them. Compilation happens once per type, on first use.
type Registry struct {
	chain  *rules.Chain
	logger *slog.Logger

	mu       sync.Mutex
	decls    map[reflect.Type][]fieldDecl
	sealed   map[reflect.Type]bool // compiled or compiling
	compiled *typecache.Cache[*Compiled]
}

// Option configures a Registry.
type Option func(*Registry)

// WithChain sets the handler chain rules are resolved through.
func WithChain(c *rules.Chain) Option {
	return func(r *Registry) {
		if c != nil {
			r.chain = c
		}
	}
}

// WithLogger sets the logger used to report compilations.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry creates an empty registry. Without WithChain it resolves rules
// through rules.Default().
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		decls:    make(map[reflect.Type][]fieldDecl),
		sealed:   make(map[reflect.Type]bool),
		compiled: typecache.New[*Compiled](),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.chain == nil {
		r.chain = rules.Default()
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

var defaultRegistry = sync.OnceValue(func() *Registry { return NewRegistry() })

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	return defaultRegistry()
}

// Declare sets the ordered field rules of T, replacing earlier declarations.
// Declaring rules for a type that has been compiled, or whose compilation
// has started, panics with ErrAlreadyCompiled.
func Declare[T any](r *Registry, fields ...FieldRules[T]) {
	decls := make([]fieldDecl, 0, len(fields))
	for _, f := range fields {
		decls = append(decls, f.erase())
	}
	r.declare(typecache.TypeOf[T](), decls)
}

func (r *Registry) declare(t reflect.Type, decls []fieldDecl) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed[t] || r.compiled.Has(t) {
		panic(fmt.Errorf("%w: %s", ErrAlreadyCompiled, t))
	}
	r.decls[t] = decls
}

// Compile returns the validator for T, compiling it on first use.
func Compile[T any](r *Registry) *Compiled {
	return r.Compile(typecache.TypeOf[T]())
}

// Compile returns the validator for t, compiling it on first use. Concurrent
// first callers share a single compilation.
func (r *Registry) Compile(t reflect.Type) *Compiled {
	return r.compiled.GetOrBuild(t, func() *Compiled {
		r.mu.Lock()
		r.sealed[t] = true
		decls := r.decls[t]
		r.mu.Unlock()
		return r.build(t, decls)
	})
}

func (r *Registry) build(t reflect.Type, decls []fieldDecl) *Compiled {
	start := time.Now()
	c := &Compiled{typ: t}
	for _, d := range decls {
		for _, rule := range d.rules {
			chk := r.chain.Resolve(rule, rules.Field{Owner: t, Name: d.name, Type: d.typ})
			if chk == nil || chk.IsNoop() {
				continue
			}
			c.checks = append(c.checks, fieldCheck{field: d.name, get: d.get, check: chk})
		}
	}

	r.logger.Debug("validator compiled",
		logger.Component("validator"),
		logger.Type(t),
		slog.Int("fields", len(decls)),
		slog.Int("checks", len(c.checks)),
		logger.Duration(time.Since(start)),
	)
	return c
}

// Validate compiles (if needed) and runs the validator for value's type.
// Pointers are dereferenced.
func (r *Registry) Validate(value any) error {
	v, err := deref(reflect.ValueOf(value))
	if err != nil {
		return err
	}
	return r.Compile(v.Type()).validate(v, false)
}

// ValidateAll is like Validate but reports every failing check.
func (r *Registry) ValidateAll(value any) error {
	v, err := deref(reflect.ValueOf(value))
	if err != nil {
		return err
	}
	return r.Compile(v.Type()).validate(v, true)
}

// Validate runs value through the default registry.
func Validate(value any) error {
	return DefaultRegistry().Validate(value)
}

func deref(v reflect.Value) (reflect.Value, error) {
	if !v.IsValid() {
		return v, ErrNilValue
	}
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return v, ErrNilValue
		}
		v = v.Elem()
	}
	return v, nil
}
