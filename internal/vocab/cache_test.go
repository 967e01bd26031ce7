package vocab

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/cdm-catcher/internal/types"
)

const sampleConfig = `<fields>
  <field><name>Title</name><nick>title</nick><type>TEXT</type><vocab>0</vocab></field>
  <field><name>Type</name><nick>type</nick><type>TEXT</type><vocab>1</vocab></field>
  <field><name>Subject</name><nick>subjec</nick><type>TEXT</type><vocab>1</vocab></field>
  <field><name>Notes</name><nick>notes</nick><type>TEXT</type></field>
</fields>`

// fakeService serves canned documents and counts calls.
type fakeService struct {
	config      string
	configErr   error
	terms       map[string]string
	termErr     map[string]error
	configCalls []string
	termCalls   []string
}

func (f *fakeService) CollectionConfig(_ context.Context, alias string) (string, error) {
	f.configCalls = append(f.configCalls, alias)
	return f.config, f.configErr
}

func (f *fakeService) ControlledVocabTerms(_ context.Context, alias, field string) (string, error) {
	f.termCalls = append(f.termCalls, alias+" "+field)
	if err := f.termErr[field]; err != nil {
		return "", err
	}
	return f.terms[field], nil
}

func newFake() *fakeService {
	return &fakeService{
		config: sampleConfig,
		terms:  map[string]string{
			"type":   "<terms><term>Photograph</term><term>Postcard</term></terms>",
			"subjec": "<terms><term>Streets</term><term>Automobiles</term></terms>",
			"title":  "<terms><term>Main Street</term></terms>",
		},
		termErr: map[string]error{},
	}
}

// scriptedPrompter answers with a fixed value and remembers the questions.
type scriptedPrompter struct {
	answer    bool
	questions []string
}

func (p *scriptedPrompter) Confirm(question string) (bool, error) {
	p.questions = append(p.questions, question)
	return p.answer, nil
}

func TestCache_EnsureMemoizes(t *testing.T) {
	svc := newFake()
	cache := NewCache(svc, Options{Alias: "coll"})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		terms, controlled, err := cache.Ensure(ctx, "type")
		require.NoError(t, err)
		assert.True(t, controlled)
		assert.True(t, terms.Contains("Photograph"))
		assert.False(t, terms.Contains("Bogus"))
	}
	_, _, err := cache.Ensure(ctx, "subjec")
	require.NoError(t, err)

	assert.Equal(t, []string{"/coll"}, svc.configCalls)
	assert.Equal(t, []string{"/coll type", "/coll subjec"}, svc.termCalls)
}

func TestCache_UncontrolledFieldsNeverFetchTerms(t *testing.T) {
	svc := newFake()
	cache := NewCache(svc, Options{Alias: "/coll"})

	for _, field := range []string{"title", "notes", "unknown"} {
		terms, controlled, err := cache.Ensure(context.Background(), field)
		require.NoError(t, err)
		assert.False(t, controlled, field)
		assert.Nil(t, terms)
	}
	assert.Len(t, svc.configCalls, 1)
	assert.Empty(t, svc.termCalls)
}

func TestCache_Override(t *testing.T) {
	svc := newFake()
	cache := NewCache(svc, Options{
		Alias:    "coll",
		Override: Override{Alias: "twin", Fields: []string{"title"}},
	})
	ctx := context.Background()

	_, controlled, err := cache.Ensure(ctx, "type")
	require.NoError(t, err)
	assert.True(t, controlled)

	terms, controlled, err := cache.Ensure(ctx, "title")
	require.NoError(t, err)
	assert.True(t, controlled, "fields named in the override are checked")
	assert.True(t, terms.Contains("Main Street"))

	assert.Equal(t, []string{"/coll"}, svc.configCalls)
	assert.Equal(t, []string{"/twin type", "/twin title"}, svc.termCalls)
}

func TestCache_OverrideByDisplayName(t *testing.T) {
	svc := newFake()
	cache := NewCache(svc, Options{
		Alias:    "coll",
		Override: Override{Alias: "twin", Fields: []string{"Title"}},
	})

	terms, controlled, err := cache.Ensure(context.Background(), "title")
	require.NoError(t, err)
	assert.True(t, controlled)
	assert.True(t, terms.Contains("Main Street"))
	assert.Equal(t, []string{"/twin title"}, svc.termCalls)
}

func TestCache_Policies(t *testing.T) {
	tests := []struct {
		name           string
		policy         Policy
		answer         bool
		wantErr        bool
		wantQuestioned bool
	}{
		{name: "fail-closed aborts", policy: FailClosed, wantErr: true},
		{name: "fail-open continues", policy: FailOpen},
		{name: "prompt yes continues", policy: Prompt, answer: true, wantQuestioned: true},
		{name: "prompt no aborts", policy: Prompt, answer: false, wantErr: true, wantQuestioned: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newFake()
			svc.termErr["type"] = errors.New("connection reset")
			prompter := &scriptedPrompter{answer: tt.answer}
			cache := NewCache(svc, Options{Alias: "coll", Policy: tt.policy, Prompter: prompter})

			_, controlled, err := cache.Ensure(context.Background(), "type")
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, types.ErrVocabularyUnavailable))
			} else {
				require.NoError(t, err)
				assert.False(t, controlled)

				// The decision sticks: no second fetch, no second question.
				_, controlled, err = cache.Ensure(context.Background(), "type")
				require.NoError(t, err)
				assert.False(t, controlled)
				assert.Len(t, svc.termCalls, 1)
			}

			if tt.wantQuestioned {
				require.Len(t, prompter.questions, 1)
				assert.Equal(t, `Continue without vocabulary checking for field "type"?`, prompter.questions[0])
			} else {
				assert.Empty(t, prompter.questions)
			}
		})
	}
}

func TestCache_UnparseableTermsAreUnavailable(t *testing.T) {
	svc := newFake()
	svc.terms["type"] = "No controlled vocabulary for this field"
	cache := NewCache(svc, Options{Alias: "coll"})

	_, _, err := cache.Ensure(context.Background(), "type")
	assert.True(t, errors.Is(err, types.ErrVocabularyUnavailable))
}

func TestCache_ConfigFailure(t *testing.T) {
	t.Run("fail-open makes every field unconstrained", func(t *testing.T) {
		svc := newFake()
		svc.configErr = errors.New("timeout")
		cache := NewCache(svc, Options{Alias: "coll", Policy: FailOpen})

		for _, field := range []string{"type", "subjec", "type"} {
			_, controlled, err := cache.Ensure(context.Background(), field)
			require.NoError(t, err)
			assert.False(t, controlled)
		}
		assert.Len(t, svc.configCalls, 1)
		assert.Empty(t, svc.termCalls)
	})

	t.Run("fail-closed aborts", func(t *testing.T) {
		svc := newFake()
		svc.configErr = errors.New("timeout")
		cache := NewCache(svc, Options{Alias: "coll"})

		_, _, err := cache.Ensure(context.Background(), "type")
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrVocabularyUnavailable))
		assert.Contains(t, err.Error(), "/coll")
	})
}

func TestTerminalPrompter(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		p := &TerminalPrompter{In: strings.NewReader(tt.input), Out: &out}

		got, err := p.Confirm("Continue?")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.input)
		assert.Equal(t, "Continue? [y/N]: ", out.String())
	}
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]Policy{"": FailClosed, "fail-closed": FailClosed, "Fail-Open": FailOpen, "prompt": Prompt} {
		got, err := ParsePolicy(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParsePolicy("maybe")
	assert.Error(t, err)
}
