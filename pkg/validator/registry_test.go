package validator_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rulekit/pkg/logger"
	"github.com/dmitrymomot/rulekit/pkg/rules"
	"github.com/dmitrymomot/rulekit/pkg/validator"
)

type author struct {
	Name  string
	Email string
	Age   int
	Bio   *string
}

func (a author) CheckName() string {
	if strings.EqualFold(a.Name, "admin") {
		return "name is reserved"
	}
	return ""
}

type untouched struct {
	Name  string
	Count int
}

func declareAuthor(r *validator.Registry) {
	validator.Declare(r,
		validator.Field("Name", func(a author) string { return a.Name },
			rules.Required{Message: "name is required"},
			rules.MaxLen(10, "name is too long"),
			rules.Method{Name: "CheckName"},
		),
		validator.Field("Email", func(a author) string { return a.Email },
			rules.Required{Message: "email is required"},
			rules.Tag{Tag: "email", Message: "email is invalid"},
		),
		validator.Field("Age", func(a author) int { return a.Age },
			rules.Range{Min: 18, Max: 120, Message: "age out of range"},
		),
		validator.Field("Bio", func(a author) *string { return a.Bio },
			rules.MaxLen(5, "bio is too long"),
		),
	)
}

func validAuthor() author {
	return author{Name: "Ann", Email: "ann@example.com", Age: 30}
}

func TestRegistry_NoRules(t *testing.T) {
	r := validator.NewRegistry()

	for _, v := range []untouched{{}, {Name: "x", Count: -1}} {
		assert.NoError(t, r.Validate(v))
		assert.NoError(t, r.Validate(&v))
	}
	assert.Equal(t, 0, validator.Compile[untouched](r).Len())
}

func TestRegistry_FirstFailureWins(t *testing.T) {
	r := validator.NewRegistry()
	declareAuthor(r)

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, r.Validate(validAuthor()))
	})

	t.Run("required uses the configured message", func(t *testing.T) {
		err := r.Validate(author{})
		require.Error(t, err)
		errs := validator.ExtractValidationErrors(err)
		require.Len(t, errs, 1)
		assert.Equal(t, "Name", errs[0].Field)
		assert.Equal(t, "name is required", errs[0].Message)
		assert.Equal(t, "validation.required", errs[0].TranslationKey)
	})

	t.Run("field order decides", func(t *testing.T) {
		a := validAuthor()
		a.Email = "nope"
		a.Age = 3
		errs := validator.ExtractValidationErrors(r.Validate(a))
		require.Len(t, errs, 1)
		assert.Equal(t, "email is invalid", errs[0].Message)
	})

	t.Run("rule order decides within a field", func(t *testing.T) {
		a := validAuthor()
		a.Name = "administrator"
		assert.Equal(t, "name is too long", validator.Compile[author](r).Message(a))

		a.Name = "Admin"
		assert.Equal(t, "name is reserved", validator.Compile[author](r).Message(a))
	})

	t.Run("optional pointer", func(t *testing.T) {
		a := validAuthor()
		bio := "short"
		a.Bio = &bio
		assert.NoError(t, r.Validate(a))

		bio = "much too long"
		assert.Equal(t, "bio is too long", validator.Compile[author](r).Message(a))
	})

	t.Run("validate all", func(t *testing.T) {
		err := r.ValidateAll(author{Age: 5})
		errs := validator.ExtractValidationErrors(err)
		assert.Equal(t, []string{"Name", "Email", "Age"}, errs.Fields())
		assert.Equal(t, []string{"name is required"}, errs.Get("Name"))
	})
}

func TestRegistry_RequiredZeroValues(t *testing.T) {
	type item struct {
		Code  string
		Qty   int
		Price float64
		Tags  []string
	}

	r := validator.NewRegistry()
	validator.Declare(r,
		validator.Field("Code", func(i item) string { return i.Code }, rules.Required{Message: "code"}),
		validator.Field("Qty", func(i item) int { return i.Qty }, rules.Required{Message: "qty"}),
		validator.Field("Price", func(i item) float64 { return i.Price }, rules.Required{Message: "price"}),
		validator.Field("Tags", func(i item) []string { return i.Tags }, rules.Required{Message: "tags"}),
	)
	c := validator.Compile[item](r)

	full := item{Code: "A", Qty: 1, Price: 0.5, Tags: []string{"x"}}
	assert.Equal(t, "", c.Message(full))

	cases := map[string]func(*item){
		"code":  func(i *item) { i.Code = "" },
		"qty":   func(i *item) { i.Qty = 0 },
		"price": func(i *item) { i.Price = 0 },
		"tags":  func(i *item) { i.Tags = []string{} },
	}
	for want, mutate := range cases {
		t.Run(want, func(t *testing.T) {
			v := full
			mutate(&v)
			assert.Equal(t, want, c.Message(v))
		})
	}
}

func TestRegistry_HandlerOverride(t *testing.T) {
	chain := rules.NewDefaultChain()
	chain.Register(rules.For(func(_ *rules.Chain, r rules.Required, f rules.Field) *rules.Check {
		if f.Type.Kind() != reflect.String {
			return nil
		}
		return rules.NewFunc(func(_, v reflect.Value) (string, bool) {
			return "overridden: " + r.Message, v.String() != "-"
		})
	}))

	r := validator.NewRegistry(validator.WithChain(chain))
	validator.Declare(r,
		validator.Field("Name", func(u untouched) string { return u.Name }, rules.Required{Message: "name"}),
	)

	assert.NoError(t, r.Validate(untouched{}), "builtin verdict is no longer used")
	assert.Equal(t, "overridden: name", validator.Compile[untouched](r).Message(untouched{Name: "-"}))
}

func TestRegistry_ConcurrentCompile(t *testing.T) {
	var passes atomic.Int32
	chain := rules.NewDefaultChain()
	chain.Register(rules.For(func(_ *rules.Chain, _ rules.Required, f rules.Field) *rules.Check {
		passes.Add(1)
		return nil
	}))

	r := validator.NewRegistry(validator.WithChain(chain))
	declareAuthor(r)

	const workers = 50
	compiled := make([]*validator.Compiled, workers)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			compiled[i] = validator.Compile[author](r)
			_ = r.Validate(author{})
		}(i)
	}
	close(start)
	wg.Wait()

	// Two Required rules are declared on author: one compile pass sees both.
	assert.Equal(t, int32(2), passes.Load())
	for _, c := range compiled {
		assert.Same(t, compiled[0], c)
	}
}

func TestRegistry_Errors(t *testing.T) {
	r := validator.NewRegistry()
	declareAuthor(r)

	t.Run("nil values", func(t *testing.T) {
		var a *author
		assert.ErrorIs(t, r.Validate(a), validator.ErrNilValue)
		assert.ErrorIs(t, r.Validate(nil), validator.ErrNilValue)
	})

	t.Run("type mismatch", func(t *testing.T) {
		err := validator.Compile[author](r).Validate(untouched{})
		assert.ErrorIs(t, err, validator.ErrTypeMismatch)
		assert.False(t, validator.IsValidationError(err))
	})

	t.Run("declare after compile", func(t *testing.T) {
		validator.Compile[author](r)
		assert.Panics(t, func() { declareAuthor(r) })
	})

	t.Run("malformed metadata surfaces on first compile", func(t *testing.T) {
		r := validator.NewRegistry()
		validator.Declare(r, validator.Field("Name", func(u untouched) string { return u.Name }, rules.Required{}))
		assert.Panics(t, func() { _ = r.Validate(untouched{}) })
	})
}

func TestCompiled_Fields(t *testing.T) {
	r := validator.NewRegistry()
	declareAuthor(r)
	c := validator.Compile[author](r)

	assert.Equal(t, reflect.TypeFor[author](), c.Type())
	assert.Equal(t, []string{"Name", "Email", "Age", "Bio"}, c.Fields())
	assert.Equal(t, 7, c.Len())
}

func TestRegistry_DeclareWhileCompiling(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	chain := rules.NewDefaultChain()
	chain.Register(rules.For(func(_ *rules.Chain, _ rules.Required, _ rules.Field) *rules.Check {
		once.Do(func() {
			close(entered)
			<-release
		})
		return nil
	}))

	r := validator.NewRegistry(validator.WithChain(chain))
	validator.Declare(r,
		validator.Field("Name", func(u untouched) string { return u.Name }, rules.Required{Message: "name is required"}),
	)

	done := make(chan *validator.Compiled)
	go func() { done <- validator.Compile[untouched](r) }()
	<-entered

	err := panicError(func() {
		validator.Declare(r,
			validator.Field("Count", func(u untouched) int { return u.Count }, rules.Min(1, "count must be positive")),
		)
	})
	close(release)
	c := <-done

	assert.ErrorIs(t, err, validator.ErrAlreadyCompiled)
	assert.Equal(t, []string{"Name"}, c.Fields())
	assert.Equal(t, "name is required", c.Message(untouched{Count: 0}))
}

func panicError(fn func()) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err, _ = v.(error)
		}
	}()
	fn()
	return nil
}

func TestRegistry_LogsCompilation(t *testing.T) {
	buf := &bytes.Buffer{}
	r := validator.NewRegistry(validator.WithLogger(logger.New(logger.WithOutput(buf), logger.WithLevel(slog.LevelDebug))))
	validator.Declare(r,
		validator.Field("Name", func(u untouched) string { return u.Name }, rules.Required{Message: "name is required"}),
	)
	validator.Compile[untouched](r)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "validator compiled", entry["msg"])
	assert.Equal(t, "validator_test.untouched", entry["type"])
	assert.EqualValues(t, 1, entry["checks"])
	assert.Contains(t, entry, "duration")
}
