package recognition

import (
	"fmt"
	"hash/fnv"
	"math"

	"github.com/agentkit/agentlearn/internal/domain/learning"
	"github.com/agentkit/agentlearn/internal/infrastructure/cache"
)

// CosineSimilarity returns the cosine similarity of two sequences'
// feature vectors in [0, 1]. Features are derived from action type,
// context, and parameter identity, so near-identical sequences score
// close to 1 and sequences with disjoint types score near 0. The result
// is symmetric and may be served from the pattern cache segment.
func (e *Engine) CosineSimilarity(a, b *learning.ActionSequence) float64 {
	if a == nil || b == nil || len(a.Actions) == 0 || len(b.Actions) == 0 {
		return 0
	}

	var segment *cache.BoundedCache
	var key string
	if e.caches != nil {
		segment = e.caches.Segment(cache.SegmentPattern)
	}
	if segment != nil {
		key = pairKey(a.Signature(), b.Signature())
		if cached, ok := segment.Get(key); ok {
			if sim, ok := cached.(float64); ok {
				return sim
			}
		}
	}

	sim := cosine(a.FeatureCounts(), b.FeatureCounts())

	if segment != nil {
		segment.Set(key, sim)
	}
	return sim
}

// cosine computes the cosine of two sparse count vectors.
func cosine(a, b map[string]float64) float64 {
	var dot, normA, normB float64
	for feature, av := range a {
		normA += av * av
		if bv, ok := b[feature]; ok {
			dot += av * bv
		}
	}
	for _, bv := range b {
		normB += bv * bv
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// Counts are non-negative so the result is already in [0, 1];
	// clamp floating-point spill.
	if sim > 1 {
		sim = 1
	}
	if sim < 0 {
		sim = 0
	}
	return sim
}

// pairKey builds an order-independent cache key for a sequence pair.
func pairKey(sigA, sigB string) string {
	if sigB < sigA {
		sigA, sigB = sigB, sigA
	}
	h := fnv.New64a()
	h.Write([]byte(sigA))
	h.Write([]byte{0})
	h.Write([]byte(sigB))
	return fmt.Sprintf("sim:%016x", h.Sum64())
}

// patternFeatures derives a comparable feature vector from a pattern's
// body so candidates can be measured against accepted patterns.
func patternFeatures(p *learning.Pattern) map[string]float64 {
	counts := make(map[string]float64)
	counts["type:"+p.Body.Type]++
	for k, v := range p.Body.Context {
		counts["ctx:"+k+"="+v.Canonical()]++
	}
	for _, step := range p.Body.Approach.Steps {
		counts["type:"+step]++
	}
	return counts
}
