// Package chunker partitions a file catalog into content-bounded chunks,
// each sized to fit a single analysis call.
package chunker

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"codescope/internal/catalog"
)

// ErrBadTargetCount is returned when the requested chunk count is not positive.
var ErrBadTargetCount = errors.New("target chunk count must be at least 1")

// Chunk is one partition of the corpus. Chunks are built once and never
// mutated; every input file belongs to exactly one chunk.
type Chunk struct {
	ID        string
	Files     []catalog.FileRecord
	Content   string
	SizeChars int
	FileCount int
}

// Build splits files into at most targetChunks chunks using a greedy
// largest-first strategy. Each chunk is filled up to roughly
// totalSize/targetChunks chars; whatever remains after targetChunks-1 chunks
// have been finalized goes into the last chunk, so the final chunk acts as a
// catch-all and may exceed the budget. A single file larger than the budget
// is still placed whole — overflow never fails.
func Build(files []catalog.FileRecord, targetChunks int) ([]Chunk, error) {
	if targetChunks < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrBadTargetCount, targetChunks)
	}
	if len(files) == 0 {
		return nil, nil
	}

	totalSize := 0
	for _, f := range files {
		totalSize += f.Size
	}
	budget := totalSize / targetChunks

	// Largest files first gives better size balance than arrival order.
	// The sort is stable so equal-size files keep their input order and
	// the partition is deterministic.
	sorted := make([]catalog.FileRecord, len(files))
	copy(sorted, files)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Size > sorted[j].Size })

	var chunks []Chunk
	var current []catalog.FileRecord
	currentSize := 0

	for _, f := range sorted {
		if len(current) > 0 && currentSize+f.Size > budget && len(chunks) < targetChunks-1 {
			chunks = append(chunks, finalize(current, len(chunks)))
			current = nil
			currentSize = 0
		}
		current = append(current, f)
		currentSize += f.Size
	}
	if len(current) > 0 {
		chunks = append(chunks, finalize(current, len(chunks)))
	}

	return chunks, nil
}

func finalize(files []catalog.FileRecord, idx int) Chunk {
	c := Chunk{
		ID:        fmt.Sprintf("chunk_%d", idx+1),
		Files:     make([]catalog.FileRecord, len(files)),
		FileCount: len(files),
	}
	copy(c.Files, files)

	sep := strings.Repeat("=", 50)
	var sb strings.Builder
	for _, f := range files {
		fmt.Fprintf(&sb, "\n%s\nFILE: %s\nPATH: %s\n%s\n", sep, f.Name, f.Path, sep)
		sb.WriteString(f.Content)
		sb.WriteString("\n\n")
		c.SizeChars += f.Size
	}
	c.Content = sb.String()

	return c
}
