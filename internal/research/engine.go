// Package research implements the metallurgy knowledge base: plain-text
// documents are chunked by paragraph, vectorized with TF-IDF, and
// queried by cosine similarity.
package research

import (
	"math"
	"sort"
	"strings"

	"smartsteel/pkg/api"
)

const (
	// DefaultTopK is how many chunks a query returns at most.
	DefaultTopK = 3
	// scoreThreshold filters chunks too dissimilar to be useful.
	scoreThreshold = 0.05
	// minChunkLen drops paragraph fragments with no content.
	minChunkLen = 10
)

// Chunk is one indexed paragraph.
type Chunk struct {
	Source  string `json:"source"`
	Content string `json:"content"`
}

// Engine is a TF-IDF index over document chunks.
type Engine struct {
	chunks  []Chunk
	vocab   map[string]int
	idf     []float64
	vectors []map[int]float64 // l2-normalized tf-idf per chunk
}

// Document is a named plain-text input for indexing.
type Document struct {
	Source string
	Text   string
}

// NewEngine builds an index over the given documents.
func NewEngine(docs []Document) *Engine {
	e := &Engine{vocab: make(map[string]int)}

	for _, doc := range docs {
		for _, chunk := range splitChunks(doc) {
			e.chunks = append(e.chunks, chunk)
		}
	}

	// Term frequencies per chunk, building the vocabulary as we go.
	counts := make([]map[int]float64, len(e.chunks))
	docFreq := make(map[int]int)
	for i, chunk := range e.chunks {
		counts[i] = make(map[int]float64)
		for _, term := range tokenize(chunk.Content) {
			id, ok := e.vocab[term]
			if !ok {
				id = len(e.vocab)
				e.vocab[term] = id
			}
			counts[i][id]++
		}
		for id := range counts[i] {
			docFreq[id]++
		}
	}

	// Smoothed idf, as used by the original vectorizer.
	n := float64(len(e.chunks))
	e.idf = make([]float64, len(e.vocab))
	for id := range e.idf {
		e.idf[id] = math.Log((1+n)/float64(1+docFreq[id])) + 1
	}

	e.vectors = make([]map[int]float64, len(e.chunks))
	for i, tf := range counts {
		e.vectors[i] = normalize(weigh(tf, e.idf))
	}

	return e
}

// Query returns the topK most similar chunks to the query text, best
// first, dropping anything under the relevance threshold. topK <= 0
// selects DefaultTopK.
func (e *Engine) Query(query string, topK int) []api.ResearchResult {
	if topK <= 0 {
		topK = DefaultTopK
	}

	tf := make(map[int]float64)
	for _, term := range tokenize(query) {
		if id, ok := e.vocab[term]; ok {
			tf[id]++
		}
	}
	qvec := normalize(weigh(tf, e.idf))

	var results []api.ResearchResult
	for i, vec := range e.vectors {
		score := dot(qvec, vec)
		if score > scoreThreshold {
			results = append(results, api.ResearchResult{
				Content: e.chunks[i].Content,
				Source:  e.chunks[i].Source,
				Score:   score,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results
}

// Chunks returns the number of indexed chunks.
func (e *Engine) Chunks() int {
	return len(e.chunks)
}

func splitChunks(doc Document) []Chunk {
	var chunks []Chunk
	for _, para := range strings.Split(doc.Text, "\n\n") {
		para = strings.TrimSpace(para)
		if len(para) > minChunkLen {
			chunks = append(chunks, Chunk{Source: doc.Source, Content: para})
		}
	}
	return chunks
}

func weigh(tf map[int]float64, idf []float64) map[int]float64 {
	out := make(map[int]float64, len(tf))
	for id, count := range tf {
		out[id] = count * idf[id]
	}
	return out
}

func normalize(vec map[int]float64) map[int]float64 {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return vec
	}
	norm := math.Sqrt(sum)
	for id := range vec {
		vec[id] /= norm
	}
	return vec
}

func dot(a, b map[int]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for id, v := range a {
		sum += v * b[id]
	}
	return sum
}
