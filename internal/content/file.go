package content

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/verte-zerg/lophoc/internal/model"
)

// FileSource reads items from a text file, one "category: text" per line.
// Lines starting with '#' are comments.
type FileSource struct {
	path string
}

// NewFileSource returns a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name implements Source.
func (s *FileSource) Name() string {
	return "file:" + s.path
}

// Fetch implements Source.
func (s *FileSource) Fetch(_ context.Context) ([]model.Item, error) {
	return LoadItems(s.path)
}

// LoadItems reads an items file.
func LoadItems(path string) ([]model.Item, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only items file.
			_ = cerr
		}
	}()

	var items []model.Item
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		item, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		item.ID = fmt.Sprintf("file-%d", len(items)+1)
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("items file is empty")
	}
	return items, nil
}

func parseLine(line string) (model.Item, error) {
	sep := strings.IndexAny(line, ":\t")
	if sep < 0 {
		return model.Item{}, fmt.Errorf("expected \"category: text\", got %q", line)
	}
	category, err := model.ParseCategory(line[:sep])
	if err != nil {
		return model.Item{}, err
	}
	text := model.NormalizeText(line[sep+1:])
	if text == "" {
		return model.Item{}, fmt.Errorf("missing item text")
	}
	return model.Item{Text: text, Category: category}, nil
}
