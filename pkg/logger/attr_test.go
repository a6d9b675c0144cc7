package logger_test

import (
	"errors"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/rulekit/pkg/logger"
)

func TestGroup(t *testing.T) {
	attr := logger.Group("req", slog.String("id", "1"), slog.Int("n", 2))
	require.Equal(t, "req", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	assert.Len(t, attr.Value.Group(), 2)
}

func TestErrorAttrs(t *testing.T) {
	err1 := errors.New("first")
	err2 := errors.New("second")

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
	assert.Equal(t, err1, logger.Error(err1).Value.Any())
	assert.Equal(t, "error", logger.Error(err2).Key)
}

func TestDomainAttrs(t *testing.T) {
	type book struct{}

	assert.True(t, logger.Type(reflect.TypeFor[book]()).Equal(slog.String("type", "logger_test.book")))
	assert.True(t, logger.Type(nil).Equal(slog.Attr{}))
	assert.True(t, logger.Field("Title").Equal(slog.String("field", "Title")))
	assert.True(t, logger.Rule("length").Equal(slog.String("rule", "length")))
	assert.True(t, logger.Component("construct").Equal(slog.String("component", "construct")))
	assert.True(t, logger.Duration(time.Second).Equal(slog.Duration("duration", time.Second)))
}
