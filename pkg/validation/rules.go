package validation

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/goliatone/go-schemeweave/pkg/schema"
)

// rules is the compiled form of a field's validation list.
type rules struct {
	required bool
	minLen   *int
	maxLen   *int
	pattern  *regexp.Regexp
	email    bool
	url      bool
	number   bool
	messages map[string]string
}

var (
	patternMu    sync.Mutex
	patternCache = map[string]*regexp.Regexp{}
)

func compilePattern(expr string) *regexp.Regexp {
	patternMu.Lock()
	defer patternMu.Unlock()
	if re, ok := patternCache[expr]; ok {
		return re
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		re = nil
	}
	patternCache[expr] = re
	return re
}

func collectRules(field schema.Field) rules {
	r := rules{
		required: field.Required,
		email:    field.Type == schema.FieldTypeEmail,
		url:      field.Type == schema.FieldTypeURL,
		number:   field.Type == schema.FieldTypeNumber,
		messages: map[string]string{},
	}
	for _, rule := range field.Validation {
		if rule.Message != "" {
			r.messages[rule.Kind] = rule.Message
		}
		switch rule.Kind {
		case schema.RuleRequired:
			r.required = true
		case schema.RuleMinLength:
			if val, err := strconv.Atoi(rule.Value); err == nil {
				r.minLen = &val
			}
		case schema.RuleMaxLength:
			if val, err := strconv.Atoi(rule.Value); err == nil {
				r.maxLen = &val
			}
		case schema.RulePattern:
			if rule.Value != "" {
				r.pattern = compilePattern(rule.Value)
			}
		case schema.RuleEmail:
			r.email = true
		case schema.RuleURL:
			r.url = true
		}
	}
	return r
}

func (r rules) message(kind, fallback string) string {
	if msg, ok := r.messages[kind]; ok {
		return msg
	}
	return fallback
}

func (r rules) checkText(value string) []string {
	if strings.TrimSpace(value) == "" {
		if r.required {
			return []string{r.message(schema.RuleRequired, "required")}
		}
		return nil
	}

	var problems []string
	length := utf8.RuneCountInString(value)
	if r.minLen != nil && length < *r.minLen {
		problems = append(problems, r.message(schema.RuleMinLength, fmt.Sprintf("min length %d", *r.minLen)))
	}
	if r.maxLen != nil && length > *r.maxLen {
		problems = append(problems, r.message(schema.RuleMaxLength, fmt.Sprintf("max length %d", *r.maxLen)))
	}
	if r.pattern != nil && !r.pattern.MatchString(value) {
		problems = append(problems, r.message(schema.RulePattern, "does not match required pattern"))
	}
	if r.email && !isEmail(value) {
		problems = append(problems, r.message(schema.RuleEmail, "invalid email address"))
	}
	if r.url && !isURL(value) {
		problems = append(problems, r.message(schema.RuleURL, "invalid URL"))
	}
	if r.number {
		if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err != nil {
			problems = append(problems, "expected number")
		}
	}
	return problems
}

func (r rules) checkList(items []string) []string {
	if len(items) == 0 {
		if r.required {
			return []string{r.message(schema.RuleRequired, "required")}
		}
		return nil
	}
	var problems []string
	if r.minLen != nil && len(items) < *r.minLen {
		problems = append(problems, r.message(schema.RuleMinLength, fmt.Sprintf("min items %d", *r.minLen)))
	}
	if r.maxLen != nil && len(items) > *r.maxLen {
		problems = append(problems, r.message(schema.RuleMaxLength, fmt.Sprintf("max items %d", *r.maxLen)))
	}
	return problems
}

func isEmail(value string) bool {
	addr, err := mail.ParseAddress(value)
	return err == nil && addr.Address == value
}

func isURL(value string) bool {
	parsed, err := url.ParseRequestURI(value)
	return err == nil && parsed.Scheme != "" && parsed.Host != ""
}
