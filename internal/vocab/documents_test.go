package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCollectionConfig(t *testing.T) {
	cfg, err := ParseCollectionConfig(sampleConfig)
	require.NoError(t, err)

	require.Len(t, cfg.Fields, 4)
	assert.Equal(t, []string{"type", "subjec"}, cfg.ControlledFields())

	f, ok := cfg.Field("subject")
	require.True(t, ok, "lookup falls back to the display name")
	assert.Equal(t, "subjec", f.Nick)

	_, ok = cfg.Field("missing")
	assert.False(t, ok)
}

func TestParseCollectionConfig_FlagSpellings(t *testing.T) {
	doc := `<config><fields>
	  <field><nick>a</nick><vocab>true</vocab></field>
	  <field><nick>b</nick><vocab> YES </vocab></field>
	  <field><nick>c</nick><vocab>no</vocab></field>
	  <field><name>orphan</name></field>
	</fields></config>`

	cfg, err := ParseCollectionConfig(doc)
	require.NoError(t, err)
	assert.Len(t, cfg.Fields, 3, "fields without a nickname are ignored")
	assert.Equal(t, []string{"a", "b"}, cfg.ControlledFields())
}

func TestParseCollectionConfig_Errors(t *testing.T) {
	_, err := ParseCollectionConfig("Error: collection not found")
	assert.Error(t, err)

	_, err = ParseCollectionConfig("<fields><field><nick>a</nick>")
	assert.Error(t, err)
}

func TestParseTerms(t *testing.T) {
	set, err := ParseTerms(`<terms><term> Photograph </term><term>Postcard</term><term></term></terms>`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Photograph", "Postcard"}, set.Sorted())

	empty, err := ParseTerms(`<terms/>`)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = ParseTerms("")
	assert.Error(t, err)
}
