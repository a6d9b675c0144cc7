package construct

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/dmitrymomot/rulekit/internal/typecache"
	"github.com/dmitrymomot/rulekit/pkg/logger"
)

// Factory produces a fresh default instance on every call.
type Factory func() reflect.Value

// Rule produces a factory for the types it understands.
type Rule interface {
	Factory(r *Resolver, t reflect.Type) (Factory, bool)
}

// RuleFunc adapts a function to the Rule interface.
type RuleFunc func(r *Resolver, t reflect.Type) (Factory, bool)

func (fn RuleFunc) Factory(r *Resolver, t reflect.Type) (Factory, bool) {
	return fn(r, t)
}

type resolved struct {
	factory Factory
	err     error
}

// Resolver builds default instances of arbitrary types. Rules are tried
// newest first; the outcome per type, including failure, is memoized.
type Resolver struct {
	mu     sync.RWMutex
	rules  []Rule
	cache  atomic.Pointer[typecache.Cache[resolved]]
	logger *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger used to report rule registrations.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver creates a resolver with the built-in rules.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	r.rules = builtins()
	r.cache.Store(typecache.New[resolved]())
	return r
}

var defaultResolver = sync.OnceValue(func() *Resolver { return NewResolver() })

// Default returns the process-wide resolver.
func Default() *Resolver {
	return defaultResolver()
}

// Register adds rule in front of all earlier rules. Memoized outcomes are
// dropped so the new rule is taken into account.
func (r *Resolver) Register(rule Rule) {
	if rule == nil {
		panic(ErrNilRule)
	}
	r.mu.Lock()
	r.rules = append(r.rules, rule)
	n := len(r.rules)
	r.cache.Store(typecache.New[resolved]())
	r.mu.Unlock()

	r.logger.Info("constructor rule registered, it takes precedence over earlier rules",
		logger.Component("construct"),
		slog.String("rule", fmt.Sprintf("%T", rule)),
		slog.Int("rules", n),
	)
}

// Resolve returns a new default instance of t.
func (r *Resolver) Resolve(t reflect.Type) (any, error) {
	v, err := r.ResolveValue(t)
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// ResolveValue is Resolve returning the reflect.Value.
func (r *Resolver) ResolveValue(t reflect.Type) (reflect.Value, error) {
	if t == nil {
		return reflect.Value{}, ErrNilType
	}
	res := r.cache.Load().GetOrBuild(t, func() resolved {
		f, err := r.Lookup(t)
		return resolved{factory: f, err: err}
	})
	if res.err != nil {
		return reflect.Value{}, res.err
	}
	return res.factory(), nil
}

// Lookup finds a factory for t without consulting the memo. Rules that
// delegate to other types call it instead of Resolve.
func (r *Resolver) Lookup(t reflect.Type) (Factory, error) {
	r.mu.RLock()
	rules := r.rules
	r.mu.RUnlock()

	for i := len(rules) - 1; i >= 0; i-- {
		if f, ok := rules[i].Factory(r, t); ok {
			return f, nil
		}
	}
	return nil, NewUnresolvedTypeError(t)
}

// New returns a default instance of T.
func New[T any](r *Resolver) (T, error) {
	v, err := r.ResolveValue(typecache.TypeOf[T]())
	if err != nil {
		var zero T
		return zero, err
	}
	return v.Interface().(T), nil
}

// MustNew is New that panics when T cannot be resolved.
func MustNew[T any](r *Resolver) T {
	v, err := New[T](r)
	if err != nil {
		panic(err)
	}
	return v
}

// RegisterFunc registers fn as the constructor of exactly T.
func RegisterFunc[T any](r *Resolver, fn func() T) {
	target := typecache.TypeOf[T]()
	r.Register(RuleFunc(func(_ *Resolver, t reflect.Type) (Factory, bool) {
		if t != target {
			return nil, false
		}
		return func() reflect.Value {
			v := fn()
			return reflect.ValueOf(&v).Elem()
		}, true
	}))
}

// Bind resolves interface type I to a default instance of concrete type C.
func Bind[I, C any](r *Resolver) {
	iface, concrete := typecache.TypeOf[I](), typecache.TypeOf[C]()
	if iface.Kind() != reflect.Interface {
		panic(fmt.Errorf("%w: %s", ErrNotInterface, iface))
	}
	if !concrete.Implements(iface) {
		panic(fmt.Errorf("%w: %s does not implement %s", ErrNotImplements, concrete, iface))
	}
	r.Register(RuleFunc(func(r *Resolver, t reflect.Type) (Factory, bool) {
		if t != iface {
			return nil, false
		}
		f, err := r.Lookup(concrete)
		if err != nil {
			return nil, false
		}
		return func() reflect.Value {
			return f().Convert(iface)
		}, true
	}))
}
