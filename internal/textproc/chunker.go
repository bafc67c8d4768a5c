package textproc

import (
	"unicode/utf8"

	"github.com/akolanti/JobMatch/internal/domain/matchModel"
)

// Chunk splits text into consecutive pieces of size characters. The last
// piece may be shorter. Joining the pieces gives back text unchanged.
func Chunk(text string, size int) ([]string, error) {
	if size <= 0 {
		return nil, matchModel.ErrInvalidChunkSize
	}
	if text == "" {
		return nil, nil
	}

	chunks := make([]string, 0, utf8.RuneCountInString(text)/size+1)
	start, count := 0, 0
	for i := range text {
		if count == size {
			chunks = append(chunks, text[start:i])
			start, count = i, 0
		}
		count++
	}
	chunks = append(chunks, text[start:])
	return chunks, nil
}
