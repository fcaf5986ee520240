package services

import (
	"strings"
	"unicode/utf8"
)

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 200
)

// TextChunker splits résumé text into overlapping windows small enough to
// embed.
type TextChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// ChunkText groups the non-empty lines of text into chunks of at most
// maxChunkSize runes. Consecutive chunks share up to overlap runes of trailing
// words. A line longer than a chunk is split on word boundaries.
func (tc *textChunker) ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = defaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	var chunks []string
	var current []string
	size := 0
	carried := false // current[0] is overlap from the previous chunk

	flush := func() {
		chunk := strings.Join(current, "\n")
		chunks = append(chunks, chunk)

		current = current[:0]
		size = 0
		carried = false
		if tail := trailingWords(chunk, overlap); tail != "" {
			current = append(current, tail)
			size = utf8.RuneCountInString(tail)
			carried = true
		}
	}

	hasContent := func() bool {
		return len(current) > 0 && !(carried && len(current) == 1)
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}

		for _, piece := range splitLongLine(line, maxChunkSize-overlap) {
			n := utf8.RuneCountInString(piece)
			if size > 0 && size+1+n > maxChunkSize {
				if hasContent() {
					flush()
				}
				if size > 0 && size+1+n > maxChunkSize {
					current, size, carried = current[:0], 0, false
				}
			}
			if size > 0 {
				size++
			}
			current = append(current, piece)
			size += n
		}
	}

	if hasContent() {
		flush()
	}

	return chunks
}

// splitLongLine breaks line into pieces of at most limit runes, preferring
// word boundaries.
func splitLongLine(line string, limit int) []string {
	if limit <= 0 || utf8.RuneCountInString(line) <= limit {
		return []string{line}
	}

	var pieces []string
	var b strings.Builder
	n := 0
	for _, word := range strings.Fields(line) {
		w := utf8.RuneCountInString(word)
		for w > limit {
			if n > 0 {
				pieces = append(pieces, b.String())
				b.Reset()
				n = 0
			}
			runes := []rune(word)
			pieces = append(pieces, string(runes[:limit]))
			word = string(runes[limit:])
			w -= limit
		}
		if n > 0 && n+1+w > limit {
			pieces = append(pieces, b.String())
			b.Reset()
			n = 0
		}
		if n > 0 {
			b.WriteByte(' ')
			n++
		}
		b.WriteString(word)
		n += w
	}
	if n > 0 {
		pieces = append(pieces, b.String())
	}
	return pieces
}

// trailingWords returns the longest run of whole trailing words of text that
// fits in n runes.
func trailingWords(text string, n int) string {
	if n <= 0 {
		return ""
	}

	words := strings.Fields(text)
	size := 0
	start := len(words)
	for i := len(words) - 1; i >= 0; i-- {
		w := utf8.RuneCountInString(words[i])
		if size > 0 {
			w++
		}
		if size+w > n {
			break
		}
		size += w
		start = i
	}
	return strings.Join(words[start:], " ")
}
