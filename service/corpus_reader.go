package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/prosim/domain"
	"github.com/ludo-technologies/prosim/internal/constants"
)

var (
	// ErrMissingColumn is returned when a delimited file lacks a channel column
	ErrMissingColumn = errors.New("missing channel column")

	// ErrMissingValue is returned when a tuple has no value for a channel
	ErrMissingValue = errors.New("missing channel value")

	// ErrUnsupportedShape is returned for JSON/YAML documents of unknown layout
	ErrUnsupportedShape = errors.New("unsupported document shape")
)

// CorpusReaderImpl implements domain.CorpusLoader over a directory of
// corpus files, one document per file.
type CorpusReaderImpl struct {
	executor domain.ParallelExecutor
}

// NewCorpusReader creates a corpus reader that parses files concurrently
func NewCorpusReader() *CorpusReaderImpl {
	executor := NewParallelExecutor()
	executor.SetMaxConcurrency(runtime.NumCPU())
	return &CorpusReaderImpl{executor: executor}
}

// NewCorpusReaderWithExecutor creates a corpus reader with a custom executor
func NewCorpusReaderWithExecutor(executor domain.ParallelExecutor) *CorpusReaderImpl {
	return &CorpusReaderImpl{executor: executor}
}

// CollectFiles resolves the request's paths to corpus files. The result is
// sorted and free of duplicates, which fixes document order.
func (r *CorpusReaderImpl) CollectFiles(req *domain.SimilarityRequest) ([]string, error) {
	var files []string

	for _, path := range req.Paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, domain.NewFileNotFoundError(path, err)
		}

		if info.IsDir() {
			dirFiles, err := r.collectFromDirectory(path, req.Recursive, req.IncludePatterns, req.ExcludePatterns)
			if err != nil {
				return nil, err
			}
			files = append(files, dirFiles...)
			continue
		}

		// explicit files only go through the exclude patterns
		if r.IsCorpusFile(path) && !matchesAny(req.ExcludePatterns, filepath.ToSlash(path)) {
			files = append(files, path)
		}
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}

// IsCorpusFile reports whether path has a supported corpus extension
func (r *CorpusReaderImpl) IsCorpusFile(path string) bool {
	return constants.IsCorpusExtension(filepath.Ext(path))
}

func (r *CorpusReaderImpl) collectFromDirectory(root string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string

	walkFunc := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		// Skip hidden directories and files
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if !recursive {
				return filepath.SkipDir
			}
			return nil
		}

		if !r.IsCorpusFile(path) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if matchesAny(excludePatterns, rel) {
			return nil
		}
		if len(includePatterns) > 0 && !matchesAny(includePatterns, rel) {
			return nil
		}
		files = append(files, path)
		return nil
	}

	if err := filepath.WalkDir(root, walkFunc); err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", root, err)
	}
	return files, nil
}

// matchesAny checks a slash-separated path, and its base name, against
// doublestar patterns
func matchesAny(patterns []string, path string) bool {
	base := pathBase(path)
	for _, pattern := range patterns {
		if matched, _ := doublestar.Match(pattern, path); matched {
			return true
		}
		if matched, _ := doublestar.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

func pathBase(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}

// LoadDocuments parses every file concurrently and returns the documents in
// the order of files, with descriptor indices assigned.
func (r *CorpusReaderImpl) LoadDocuments(ctx context.Context, files []string, req *domain.SimilarityRequest) ([]*domain.DocumentInput, error) {
	docs := make([]*domain.DocumentInput, len(files))
	channels := req.ChannelNames()

	tasks := make([]domain.ExecutableTask, len(files))
	for i, file := range files {
		tasks[i] = NewSimpleTask(file, true, func(ctx context.Context) error {
			doc, err := r.ReadDocument(file, channels, req.PhraseField)
			if err != nil {
				return err
			}
			doc.Descriptor.Index = i
			docs[i] = doc
			return nil
		})
	}

	if err := r.executor.Execute(ctx, tasks); err != nil {
		// surface the domain error of the failing file
		var de domain.DomainError
		if errors.As(err, &de) {
			return nil, de
		}
		return nil, err
	}
	return docs, nil
}

// ReadDocument parses one corpus file into a document
func (r *CorpusReaderImpl) ReadDocument(path string, channels []string, phraseField string) (*domain.DocumentInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewFileNotFoundError(path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	var (
		tuples    []domain.PhonemeTuple
		fieldName string
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case constants.ExtCSV:
		tuples, err = parseDelimited(bytes.NewReader(data), ',', channels, phraseField)
	case constants.ExtTSV:
		tuples, err = parseDelimited(bytes.NewReader(data), '\t', channels, phraseField)
	case constants.ExtJSON:
		var v any
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err = dec.Decode(&v); err != nil {
			return nil, domain.NewParseError(path, err)
		}
		fieldName, tuples, err = parseStructured(v, channels, phraseField)
	case constants.ExtYAML, constants.ExtYML:
		var v any
		if err = yaml.Unmarshal(data, &v); err != nil {
			return nil, domain.NewParseError(path, err)
		}
		fieldName, tuples, err = parseStructured(v, channels, phraseField)
	default:
		return nil, domain.NewUnsupportedFormatError(filepath.Ext(path))
	}

	if err != nil {
		if errors.Is(err, ErrMissingColumn) || errors.Is(err, ErrMissingValue) {
			return nil, domain.NewIngestionError(path, err)
		}
		return nil, domain.NewParseError(path, err)
	}

	if fieldName != "" {
		name = fieldName
	}
	return &domain.DocumentInput{
		Descriptor: domain.DocumentDescriptor{Name: name, Path: path},
		Tuples:     tuples,
	}, nil
}

// parseDelimited reads a header row followed by one tuple per record
func parseDelimited(in io.Reader, comma rune, channels []string, phraseField string) ([]domain.PhonemeTuple, error) {
	reader := csv.NewReader(in)
	reader.Comma = comma
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true
	if comma == '\t' {
		reader.LazyQuotes = true
	}

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file without header", ErrMissingColumn)
	}
	if err != nil {
		return nil, err
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		columns[strings.TrimSpace(h)] = i
	}

	channelCols := make([]int, len(channels))
	for i, ch := range channels {
		col, ok := columns[ch]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, ch)
		}
		channelCols[i] = col
	}
	phraseCol, hasPhrase := columns[phraseField]
	phraseIDIdx := slices.Index(channels, constants.ChannelPhraseID)

	var tuples []domain.PhonemeTuple
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := reader.FieldPos(0)

		values := make([]string, len(channels))
		for i, col := range channelCols {
			v := strings.TrimSpace(record[col])
			if v == "" {
				return nil, fmt.Errorf("%w: %s on line %d", ErrMissingValue, channels[i], line)
			}
			values[i] = v
		}

		tuple := domain.PhonemeTuple{Values: values}
		if hasPhrase {
			tuple.Phrase = strings.TrimSpace(record[phraseCol])
		}
		if tuple.Phrase == "" && phraseIDIdx >= 0 {
			tuple.Phrase = values[phraseIDIdx]
		}
		tuples = append(tuples, tuple)
	}
	return tuples, nil
}

// parseStructured accepts either a list of tuple objects or an object with
// optional "name" and a "tuples" list
func parseStructured(v any, channels []string, phraseField string) (string, []domain.PhonemeTuple, error) {
	var (
		name string
		rows []any
	)

	switch doc := v.(type) {
	case []any:
		rows = doc
	case map[string]any:
		if n, ok := doc["name"]; ok {
			name = scalarString(n)
		}
		list, ok := doc["tuples"].([]any)
		if !ok {
			if _, present := doc["tuples"]; present {
				return "", nil, fmt.Errorf("%w: \"tuples\" must be a list", ErrUnsupportedShape)
			}
			return "", nil, fmt.Errorf("%w: object without \"tuples\"", ErrUnsupportedShape)
		}
		rows = list
	case nil:
		return "", nil, nil
	default:
		return "", nil, fmt.Errorf("%w: %T", ErrUnsupportedShape, v)
	}

	phraseIDIdx := slices.Index(channels, constants.ChannelPhraseID)
	tuples := make([]domain.PhonemeTuple, 0, len(rows))
	for i, row := range rows {
		fields, ok := row.(map[string]any)
		if !ok {
			return "", nil, fmt.Errorf("%w: tuple %d is %T, want an object", ErrUnsupportedShape, i, row)
		}

		values := make([]string, len(channels))
		for c, ch := range channels {
			raw, ok := fields[ch]
			if !ok {
				return "", nil, fmt.Errorf("%w: %s in tuple %d", ErrMissingValue, ch, i)
			}
			s := strings.TrimSpace(scalarString(raw))
			if s == "" {
				return "", nil, fmt.Errorf("%w: %s in tuple %d", ErrMissingValue, ch, i)
			}
			values[c] = s
		}

		tuple := domain.PhonemeTuple{Values: values}
		if p, ok := fields[phraseField]; ok {
			tuple.Phrase = strings.TrimSpace(scalarString(p))
		}
		if tuple.Phrase == "" && phraseIDIdx >= 0 {
			tuple.Phrase = values[phraseIDIdx]
		}
		tuples = append(tuples, tuple)
	}
	return name, tuples, nil
}

// scalarString renders a decoded JSON/YAML scalar as a channel value.
// Nested values render empty and are rejected as missing.
func scalarString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case map[string]any, []any:
		return ""
	default:
		return fmt.Sprint(x)
	}
}
