package corpus

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	tt "github.com/gnolang/tquery/internal/types"
)

// Load reads the whole corpus file at path into memory.
func Load(path string, logger *zap.Logger) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := Decode(bufio.NewReader(f), logger)
	if err != nil {
		return nil, fmt.Errorf("error loading corpus %s: %w", path, err)
	}
	return c, nil
}

// Decode reads a corpus (a JSON array of sentences) from r.
func Decode(r io.Reader, logger *zap.Logger) (*Corpus, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, &tt.CorpusShapeError{Member: "top-level sentence array"}
	}

	c := &Corpus{}
	var swes, smwes int
	for dec.More() {
		sent := new(Sentence)
		if err := dec.Decode(sent); err != nil {
			var shape *tt.CorpusShapeError
			if errors.As(err, &shape) {
				return nil, err
			}
			return nil, fmt.Errorf("sentence %d: %w", len(c.Sentences)+1, err)
		}
		c.Sentences = append(c.Sentences, sent)
		swes += len(sent.SWEs)
		smwes += len(sent.SMWEs)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	logger.Debug("corpus loaded",
		zap.Int("sentences", len(c.Sentences)),
		zap.Int("swes", swes),
		zap.Int("smwes", smwes))
	return c, nil
}
