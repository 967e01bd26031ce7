// =============================================================================
// CONTENTdm Catcher Client - Vocabulary Cache
// =============================================================================
//
// The cache answers one question for the validator: "which terms may this
// field hold?". It fetches the collection configuration once per run and
// each controlled field's term list at most once per (alias, field), no
// matter how many records use that field.
//
// When a document cannot be fetched or parsed, the configured Policy
// decides whether the run aborts or the field is treated as unconstrained.
// Either outcome is remembered, so the server is never asked twice.
//
// =============================================================================

package vocab

import (
	"context"
	"fmt"

	"github.com/ginjaninja78/cdm-catcher/internal/logging"
	"github.com/ginjaninja78/cdm-catcher/internal/types"
)

// Service is the part of the Catcher client the cache needs.
type Service interface {
	CollectionConfig(ctx context.Context, alias string) (string, error)
	ControlledVocabTerms(ctx context.Context, alias, field string) (string, error)
}

// Override sends term lookups to another collection. Fields listed here are
// checked against that collection even if the own configuration does not
// mark them as controlled.
type Override struct {
	Alias  string
	Fields []string
}

// Options configure a Cache.
type Options struct {
	// Alias is the collection the records are submitted to.
	Alias string

	// Override redirects term lookups. Zero value means no override.
	Override Override

	// Policy applies when a vocabulary is unavailable.
	Policy Policy

	// Prompter is consulted under the Prompt policy.
	Prompter Prompter

	Logger logging.Logger
}

// Cache memoizes controlled-vocabulary lookups for a single run.
// It is not safe for concurrent use.
type Cache struct {
	service  Service
	alias    string
	override Override
	forced   map[string]bool
	policy   Policy
	prompter Prompter
	logger   logging.Logger

	configLoaded bool
	controlled   map[string]bool

	// terms holds one entry per looked-up (alias, field). A nil set marks a
	// field that is unconstrained because its vocabulary was unavailable.
	terms map[termKey]TermSet
}

type termKey struct {
	alias string
	field string
}

// NewCache creates an empty cache.
func NewCache(service Service, opts Options) *Cache {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	override := Override{Alias: types.NormalizeAlias(opts.Override.Alias), Fields: opts.Override.Fields}
	forced := make(map[string]bool, len(override.Fields))
	for _, f := range override.Fields {
		forced[f] = true
	}

	return &Cache{
		service:    service,
		alias:      types.NormalizeAlias(opts.Alias),
		override:   override,
		forced:     forced,
		policy:     opts.Policy,
		prompter:   opts.Prompter,
		logger:     logger,
		controlled: map[string]bool{},
		terms:      map[termKey]TermSet{},
	}
}

// Ensure returns the allowed terms of field. controlled is false when the
// field is not under controlled vocabulary, or when its vocabulary was
// unavailable and the policy allowed the run to continue without it.
//
// An error wrapping types.ErrVocabularyUnavailable means the run must stop.
func (c *Cache) Ensure(ctx context.Context, field string) (terms TermSet, controlled bool, err error) {
	if err := c.loadConfig(ctx); err != nil {
		return nil, false, err
	}
	if !c.controlled[field] && !c.forced[field] {
		return nil, false, nil
	}

	source := c.alias
	if c.override.Alias != "" {
		source = c.override.Alias
	}
	key := termKey{alias: source, field: field}

	if set, ok := c.terms[key]; ok {
		return set, set != nil, nil
	}

	set, err := c.TermsFor(ctx, source, field)
	if err != nil {
		subject := fmt.Sprintf("terms of field %q in %s", field, source)
		if err := c.unavailable(subject, field, err); err != nil {
			return nil, false, err
		}
		c.terms[key] = nil
		return nil, false, nil
	}

	c.logger.Debug("vocabulary loaded", "alias", source, "field", field, "terms", len(set))
	c.terms[key] = set
	return set, true, nil
}

// TermsFor fetches and parses the term list of field in alias. It bypasses
// the cache.
func (c *Cache) TermsFor(ctx context.Context, alias, field string) (TermSet, error) {
	doc, err := c.service.ControlledVocabTerms(ctx, alias, field)
	if err != nil {
		return nil, err
	}
	return ParseTerms(doc)
}

// loadConfig fetches the own collection configuration on first use. A failed
// load is not retried: all fields of the collection count as unconstrained
// for the rest of the run, unless the policy aborts.
func (c *Cache) loadConfig(ctx context.Context) error {
	if c.configLoaded {
		return nil
	}

	cfg, err := c.fetchConfig(ctx)
	if err != nil {
		subject := fmt.Sprintf("collection configuration of %s", c.alias)
		if err := c.unavailable(subject, "", err); err != nil {
			return err
		}
		c.configLoaded = true
		return nil
	}

	for _, nick := range cfg.ControlledFields() {
		c.controlled[nick] = true
	}
	// Override fields may be given by display name ("Subject" for "subjec").
	for _, name := range c.override.Fields {
		if f, ok := cfg.Field(name); ok {
			c.forced[f.Nick] = true
		}
	}
	c.configLoaded = true
	c.logger.Debug("collection configuration loaded", "alias", c.alias, "controlled_fields", len(c.controlled))
	return nil
}

func (c *Cache) fetchConfig(ctx context.Context) (*CollectionConfig, error) {
	doc, err := c.service.CollectionConfig(ctx, c.alias)
	if err != nil {
		return nil, err
	}
	return ParseCollectionConfig(doc)
}

// unavailable applies the policy. A nil return means "continue without".
func (c *Cache) unavailable(subject, field string, cause error) error {
	switch c.policy {
	case FailOpen:
		c.logger.Warn("vocabulary unavailable, continuing without checking", "subject", subject, "error", cause)
		return nil

	case Prompt:
		if c.prompter == nil {
			break
		}
		c.logger.Warn("vocabulary unavailable", "subject", subject, "error", cause)
		question := fmt.Sprintf("Continue without vocabulary checking for collection %s?", c.alias)
		if field != "" {
			question = fmt.Sprintf("Continue without vocabulary checking for field %q?", field)
		}
		ok, err := c.prompter.Confirm(question)
		if err != nil {
			return fmt.Errorf("%w: %s: prompt failed: %v", types.ErrVocabularyUnavailable, subject, err)
		}
		if ok {
			c.logger.Warn("vocabulary unavailable, operator chose to continue", "subject", subject)
			return nil
		}
	}
	return fmt.Errorf("%w: %s: %v", types.ErrVocabularyUnavailable, subject, cause)
}
