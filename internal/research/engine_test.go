package research

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDocs = []Document{
	{
		Source: "corrosion.txt",
		Text: "Chromium forms a passive oxide layer that protects steel against corrosion.\n\n" +
			"Nickel additions improve toughness at low temperatures.",
	},
	{
		Source: "hardening.txt",
		Text: "Quenching followed by tempering increases hardness through martensite formation.\n\n" +
			"Carbon content is the dominant factor in hardenability.",
	},
}

func TestQueryRanksByRelevance(t *testing.T) {
	engine := NewEngine(testDocs)
	require.Equal(t, 4, engine.Chunks())

	results := engine.Query("chromium corrosion resistance", DefaultTopK)
	require.NotEmpty(t, results)

	assert.Equal(t, "corrosion.txt", results[0].Source)
	assert.Contains(t, results[0].Content, "Chromium")
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i].Score, results[i-1].Score)
	}
}

func TestQueryDropsIrrelevantChunks(t *testing.T) {
	engine := NewEngine(testDocs)
	assert.Empty(t, engine.Query("zirconium dioxide ceramics", DefaultTopK))
}

func TestQueryTopKLimit(t *testing.T) {
	engine := NewEngine(testDocs)
	results := engine.Query("steel hardness carbon chromium nickel", 1)
	assert.LessOrEqual(t, len(results), 1)
}

func TestQueryTopKDefaultsWhenNonPositive(t *testing.T) {
	engine := NewEngine(testDocs)
	results := engine.Query("steel hardness carbon chromium nickel corrosion", 0)
	assert.LessOrEqual(t, len(results), DefaultTopK)
	assert.NotEmpty(t, results)
}

func TestSplitChunksDropsFragments(t *testing.T) {
	engine := NewEngine([]Document{{
		Source: "short.txt",
		Text:   "tiny\n\nThis paragraph is long enough to be indexed as a chunk.",
	}})
	assert.Equal(t, 1, engine.Chunks())
}

func TestIngestDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alloys.txt"),
		[]byte("Manganese improves hot workability and counteracts sulfur embrittlement."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"),
		[]byte("not a txt document, must be skipped"), 0o644))

	engine, err := IngestDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, engine.Chunks())

	results := engine.Query("manganese sulfur", DefaultTopK)
	require.Len(t, results, 1)
	assert.Equal(t, "alloys.txt", results[0].Source)
}

func TestIngestDirMissing(t *testing.T) {
	_, err := IngestDir(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	engine := NewEngine(testDocs)
	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, engine.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, engine.Chunks(), loaded.Chunks())

	orig := engine.Query("chromium corrosion", DefaultTopK)
	reloaded := loaded.Query("chromium corrosion", DefaultTopK)
	require.Equal(t, len(orig), len(reloaded))
	for i := range orig {
		assert.Equal(t, orig[i].Content, reloaded[i].Content)
		assert.Equal(t, orig[i].Source, reloaded[i].Source)
		assert.InDelta(t, orig[i].Score, reloaded[i].Score, 1e-12)
	}
}

func TestTokenize(t *testing.T) {
	terms := tokenize("The Chromium-Oxide layer, at 12% Cr, is stable!")
	assert.Equal(t, []string{"chromium", "oxide", "layer", "12", "cr", "stable"}, terms)
}
