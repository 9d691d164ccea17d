package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"fyugp-assistant/internal/models"
)

const (
	DocumentAnswerPrefix = "From document:\n\n"
	NoAnswerMessage      = "No exact answer found. Please try rephrasing your question."
	failedAnswerFormat   = "Failed to get an answer.\n\nError: %v"

	defaultLookupTimeout = time.Second
)

var errLookupNotConfigured = errors.New("lookup service is not configured")

// Resolver turns a question into an answer: rule table first, then a line of
// the loaded document, then the external lookup. It holds no session state
// and is safe to share.
type Resolver struct {
	rules   []models.AnswerRule
	lookup  Lookup
	timeout time.Duration
}

type ResolverOption func(*Resolver)

// WithRules replaces the built-in rule table. Triggers are lower-cased.
func WithRules(rules []models.AnswerRule) ResolverOption {
	return func(r *Resolver) {
		r.rules = make([]models.AnswerRule, len(rules))
		for i, rule := range rules {
			rule.Trigger = strings.ToLower(rule.Trigger)
			r.rules[i] = rule
		}
	}
}

func WithLookupTimeout(d time.Duration) ResolverOption {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func NewResolver(lookup Lookup, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		rules:   DefaultRules(),
		lookup:  lookup,
		timeout: defaultLookupTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve always returns an answer. document is the raw text of the loaded
// document, or "" when none is loaded.
func (r *Resolver) Resolve(ctx context.Context, question, document string) models.Answer {
	lowered := strings.ToLower(question)

	if rule, ok := r.matchRule(lowered); ok {
		return models.Answer{Text: rule.Response, Source: models.SourceRule, Link: rule.Link}
	}

	if document != "" && strings.TrimSpace(lowered) != "" {
		if line, ok := searchDocument(document, lowered); ok {
			return models.Answer{Text: DocumentAnswerPrefix + line, Source: models.SourceDocument}
		}
	}

	return r.lookupAnswer(ctx, question)
}

func (r *Resolver) matchRule(lowered string) (models.AnswerRule, bool) {
	for _, rule := range r.rules {
		if rule.Trigger != "" && strings.Contains(lowered, rule.Trigger) {
			return rule, true
		}
	}
	return models.AnswerRule{}, false
}

// searchDocument returns the first line, trimmed, whose lower-cased form
// contains the lower-cased query.
func searchDocument(document, loweredQuery string) (string, bool) {
	normalized := strings.ReplaceAll(document, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	for _, line := range strings.Split(normalized, "\n") {
		if strings.Contains(strings.ToLower(line), loweredQuery) {
			return strings.TrimSpace(line), true
		}
	}
	return "", false
}

func (r *Resolver) lookupAnswer(ctx context.Context, question string) (answer models.Answer) {
	if r.lookup == nil {
		return failedAnswer(errLookupNotConfigured)
	}

	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("WARNING: lookup panicked: %v", rec)
			answer = failedAnswer(fmt.Errorf("%v", rec))
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	text, err := r.lookup.Lookup(ctx, question)
	switch {
	case errors.Is(err, ErrNoAnswer):
		return models.Answer{Text: NoAnswerMessage, Source: models.SourceNoAnswer}
	case err != nil:
		log.Printf("Lookup failed for %q: %v", question, err)
		return failedAnswer(err)
	case strings.TrimSpace(text) == "":
		return models.Answer{Text: NoAnswerMessage, Source: models.SourceNoAnswer}
	}

	return models.Answer{Text: text, Source: models.SourceLookup}
}

func failedAnswer(err error) models.Answer {
	return models.Answer{Text: fmt.Sprintf(failedAnswerFormat, err), Source: models.SourceError}
}
