// Package prompt collects form values interactively, one resolved field at a
// time, re-prompting until the value passes validation.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/goliatone/go-schemeweave/pkg/document"
	"github.com/goliatone/go-schemeweave/pkg/schema"
	"github.com/goliatone/go-schemeweave/pkg/validation"
)

const defaultMaxAttempts = 5

// Option configures a Filler.
type Option func(*Filler)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(f *Filler) {
		if driver != nil {
			f.driver = driver
		}
	}
}

// WithLogger sets the logger used for prompt diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Filler) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithMaxAttempts bounds how often an invalid answer is re-prompted.
func WithMaxAttempts(n int) Option {
	return func(f *Filler) {
		if n > 0 {
			f.maxAttempts = n
		}
	}
}

// Filler walks fields and asks for their values.
type Filler struct {
	driver      PromptDriver
	logger      *slog.Logger
	maxAttempts int
}

// New constructs a Filler using the survey driver unless overridden.
func New(opts ...Option) *Filler {
	f := &Filler{
		driver:      NewSurveyDriver(),
		logger:      slog.Default(),
		maxAttempts: defaultMaxAttempts,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Fill prompts for every field in order, using data for defaults, and returns
// the collected values. The input data is not modified.
func (f *Filler) Fill(ctx context.Context, fields []schema.Field, data document.FormData) (document.FormData, error) {
	if ctx == nil {
		return nil, errors.New("prompt: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := data.Clone()
	for _, field := range fields {
		value, err := f.promptField(ctx, field, out[field.ID])
		if err != nil {
			return nil, fmt.Errorf("prompt: field %q: %w", field.ID, err)
		}
		out[field.ID] = value
		f.logger.Debug("field collected", "field", field.ID, "kind", value.Kind().String())
	}
	return out, nil
}

func (f *Filler) promptField(ctx context.Context, field schema.Field, current document.Value) (document.Value, error) {
	switch {
	case len(field.Options) > 0:
		return f.promptSelect(ctx, field, current)
	case field.Type == schema.FieldTypeBoolean:
		return f.promptBoolean(ctx, field, current)
	case field.Type == schema.FieldTypeArray:
		return f.promptList(ctx, field, current)
	case field.Type == schema.FieldTypeObject:
		return f.promptObject(ctx, field, current)
	default:
		text, err := f.promptText(ctx, field, field.ID, current.Text())
		if err != nil {
			return document.Value{}, err
		}
		return document.Text(text), nil
	}
}

func (f *Filler) promptText(ctx context.Context, field schema.Field, path, current string) (string, error) {
	for attempt := 0; attempt < f.maxAttempts; attempt++ {
		response, err := f.driver.Input(ctx, InputConfig{
			Message: field.DisplayLabel(),
			Default: current,
			Help:    displayHelp(field),
		})
		if err != nil {
			return "", err
		}
		response = strings.TrimSpace(response)
		problems := validation.Text(field, response)
		if len(problems) == 0 {
			return response, nil
		}
		_ = f.driver.Info(ctx, fmt.Sprintf("Invalid %s: %s", path, strings.Join(problems, "; ")))
	}
	return "", ErrTooManyAttempts
}

func (f *Filler) promptSelect(ctx context.Context, field schema.Field, current document.Value) (document.Value, error) {
	defaultIdx := indexOf(field.Options, current.Text())
	if defaultIdx < 0 {
		defaultIdx = 0
	}
	for attempt := 0; attempt < f.maxAttempts; attempt++ {
		idx, err := f.driver.Select(ctx, SelectConfig{
			Message:      field.DisplayLabel(),
			Options:      field.Options,
			DefaultIndex: defaultIdx,
			Help:         displayHelp(field),
		})
		if err != nil {
			return document.Value{}, err
		}
		if idx >= 0 && idx < len(field.Options) {
			return document.Text(field.Options[idx]), nil
		}
		_ = f.driver.Info(ctx, fmt.Sprintf("Invalid %s selection", field.ID))
	}
	return document.Value{}, ErrTooManyAttempts
}

func (f *Filler) promptBoolean(ctx context.Context, field schema.Field, current document.Value) (document.Value, error) {
	def, _ := strconv.ParseBool(current.Text())
	resp, err := f.driver.Confirm(ctx, ConfirmConfig{
		Message: field.DisplayLabel(),
		Default: def,
		Help:    displayHelp(field),
	})
	if err != nil {
		return document.Value{}, err
	}
	return document.Text(strconv.FormatBool(resp)), nil
}

// promptList keeps existing items unless the user chooses to re-enter them,
// then reads items until an empty answer.
func (f *Filler) promptList(ctx context.Context, field schema.Field, current document.Value) (document.Value, error) {
	existing := current.List()
	if len(existing) > 0 {
		replace, err := f.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("%s has %d items (%s). Replace them?", field.DisplayLabel(), len(existing), strings.Join(existing, ", ")),
			Default: false,
		})
		if err != nil {
			return document.Value{}, err
		}
		if !replace {
			return document.List(existing...), nil
		}
	}

	for attempt := 0; attempt < f.maxAttempts; attempt++ {
		var items []string
		for {
			item, err := f.driver.Input(ctx, InputConfig{
				Message: fmt.Sprintf("%s item %d (empty to finish)", field.DisplayLabel(), len(items)+1),
				Help:    displayHelp(field),
			})
			if err != nil {
				return document.Value{}, err
			}
			item = strings.TrimSpace(item)
			if item == "" {
				break
			}
			items = append(items, item)
		}
		value := document.List(items...)
		problems := validation.Field(field, value)
		if len(problems) == 0 {
			return value, nil
		}
		_ = f.driver.Info(ctx, fmt.Sprintf("Invalid %s: %s", field.ID, strings.Join(problems, "; ")))
	}
	return document.Value{}, ErrTooManyAttempts
}

func (f *Filler) promptObject(ctx context.Context, field schema.Field, current document.Value) (document.Value, error) {
	if len(field.Nested) > 0 {
		_ = f.driver.Info(ctx, field.DisplayLabel())
	}
	pairs := make([]document.Pair, 0, len(field.Nested))
	for _, child := range field.Nested {
		existing, _ := current.Get(child.ID)
		text, err := f.promptText(ctx, child, field.ID+"."+child.ID, existing)
		if err != nil {
			return document.Value{}, err
		}
		pairs = append(pairs, document.Pair{Key: child.ID, Value: text})
	}
	return document.Object(pairs...), nil
}

func displayHelp(field schema.Field) string {
	if field.HelpText != "" {
		return field.HelpText
	}
	return field.Description
}
