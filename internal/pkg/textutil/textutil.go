// Package textutil provides text processing helpers for the retrieval pipeline.
package textutil

import (
	"crypto/md5"
	"encoding/hex"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// CosineSimilarity computes the cosine similarity of two vectors.
// The result is in [-1, 1], 1 meaning identical direction.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// HashString computes the MD5 hash of a string.
func HashString(s string) string {
	hash := md5.Sum([]byte(s))
	return hex.EncodeToString(hash[:])
}

// TruncateString truncates a string to at most maxLen Unicode characters.
func TruncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen])
}

// SplitIntoChunks splits text into overlapping chunks. chunkSize is the
// chunk length in Unicode characters, overlap the shared tail between
// consecutive chunks. The window advances by chunkSize-overlap until its
// start passes the end of the text, so trailing windows shorter than
// chunkSize are emitted too.
func SplitIntoChunks(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize - 1
	}

	runes := []rune(text)
	step := chunkSize - overlap

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}

	return chunks
}

// sentenceTerminators end a sentence when followed by whitespace.
func isSentenceTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// SplitSentences splits text into sentences on terminal punctuation
// followed by whitespace. Trailing text without punctuation is kept as
// a final sentence. Empty sentences are dropped.
func SplitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		current.WriteRune(runes[i])

		if isSentenceTerminator(runes[i]) && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
			// Skip the whitespace run after the terminator.
			for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
				i++
			}
		}
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

// GroupSentences joins sentences into groups of at most maxSentences,
// preserving order.
func GroupSentences(sentences []string, maxSentences int) []string {
	if maxSentences <= 0 || len(sentences) == 0 {
		return nil
	}

	var groups []string
	for i := 0; i < len(sentences); i += maxSentences {
		end := i + maxSentences
		if end > len(sentences) {
			end = len(sentences)
		}
		groups = append(groups, strings.Join(sentences[i:end], " "))
	}

	return groups
}
