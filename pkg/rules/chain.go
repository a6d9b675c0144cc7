package rules

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrymomot/rulekit/pkg/logger"
)

// Handler turns a rule declared on a field into a Check. It returns nil when
// it does not apply to the rule or to the field type, letting the chain move
// on to older handlers.
type Handler interface {
	Handle(c *Chain, r Rule, f Field) *Check
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(c *Chain, r Rule, f Field) *Check

func (fn HandlerFunc) Handle(c *Chain, r Rule, f Field) *Check {
	return fn(c, r, f)
}

// For builds a handler that only considers rules of concrete type R.
func For[R Rule](fn func(c *Chain, r R, f Field) *Check) Handler {
	return HandlerFunc(func(c *Chain, r Rule, f Field) *Check {
		typed, ok := r.(R)
		if !ok {
			return nil
		}
		return fn(c, typed, f)
	})
}

// Chain is an ordered list of handlers. The most recently registered handler
// is tried first, so later registrations override built-ins.
type Chain struct {
	mu       sync.RWMutex
	handlers []Handler
	logger   *slog.Logger
	validate *validator.Validate
}

// ChainOption configures a Chain.
type ChainOption func(*Chain)

// WithLogger sets the logger used to report handler registrations and rules
// no handler applies to.
func WithLogger(l *slog.Logger) ChainOption {
	return func(c *Chain) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithTagValidator sets the go-playground validator used by Tag rules, so
// custom validations registered on it become available as tags.
func WithTagValidator(v *validator.Validate) ChainOption {
	return func(c *Chain) {
		if v != nil {
			c.validate = v
		}
	}
}

// NewChain creates a chain with no handlers.
func NewChain(opts ...ChainOption) *Chain {
	c := &Chain{}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.validate == nil {
		c.validate = validator.New(validator.WithRequiredStructEnabled())
	}
	return c
}

// NewDefaultChain creates a chain preloaded with the built-in handlers.
func NewDefaultChain(opts ...ChainOption) *Chain {
	c := NewChain(opts...)
	for _, h := range builtins() {
		c.add(h)
	}
	return c
}

var defaultChain = sync.OnceValue(func() *Chain { return NewDefaultChain() })

// Default returns the process-wide chain with built-in handlers.
func Default() *Chain {
	return defaultChain()
}

// Register adds h in front of every previously registered handler.
func (c *Chain) Register(h Handler) {
	if h == nil {
		panic(ErrNilHandler)
	}
	n := c.add(h)
	c.logger.Info("rule handler registered, it takes precedence over earlier handlers",
		logger.Component("rules"),
		slog.String("handler", fmt.Sprintf("%T", h)),
		slog.Int("handlers", n),
	)
}

func (c *Chain) add(h Handler) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, h)
	return len(c.handlers)
}

// Resolve returns the check produced by the newest handler that applies to
// r on field f, or nil when none does.
func (c *Chain) Resolve(r Rule, f Field) *Check {
	if r == nil {
		panic(ErrNilRule)
	}

	c.mu.RLock()
	handlers := c.handlers
	c.mu.RUnlock()

	for i := len(handlers) - 1; i >= 0; i-- {
		if chk := handlers[i].Handle(c, r, f); chk != nil {
			return chk
		}
	}

	c.logger.Debug("no rule handler applies",
		logger.Component("rules"),
		logger.Rule(r.RuleName()),
		logger.Type(f.Owner),
		logger.Field(f.Name),
	)
	return nil
}

// Len returns the number of registered handlers.
func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.handlers)
}

// TagValidator returns the go-playground validator backing Tag rules.
func (c *Chain) TagValidator() *validator.Validate {
	return c.validate
}
