package golden

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/fieldcheck/packages/check"
	"github.com/abdul-hamid-achik/fieldcheck/packages/core/member"
	"github.com/abdul-hamid-achik/fieldcheck/packages/fieldscan"
	"github.com/abdul-hamid-achik/fieldcheck/packages/mismatch"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrMissing reports a golden file that has not been recorded yet.
	ErrMissing = errors.New("golden file does not exist")
	// ErrSchema reports recorded data that no longer satisfies the
	// store's JSON schema.
	ErrSchema = errors.New("golden data does not satisfy schema")
)

// Store reads and writes golden files under one base directory.
type Store struct {
	baseDir     string
	update      bool
	scope       member.Scope
	format      Format
	schema      []byte
	schemaPath  string
	parallelism int
	scanOpts    []fieldscan.Option
}

type Option func(*Store)

// WithUpdate switches the store into update mode: missing goldens are
// recorded and stale ones rewritten instead of failing.
func WithUpdate(update bool) Option {
	return func(s *Store) {
		s.update = update
	}
}

// WithScope selects which members of the recorded data take part in
// verification. The default considers all fields.
func WithScope(scope member.Scope) Option {
	return func(s *Store) {
		s.scope = scope
	}
}

// WithFormat selects the on-disk format for new files. Existing files are
// read in the store's format regardless.
func WithFormat(format Format) Option {
	return func(s *Store) {
		s.format = format
	}
}

// WithSchema validates every golden's data against the given JSON schema
// on read and on write.
func WithSchema(schema []byte) Option {
	return func(s *Store) {
		s.schema = schema
	}
}

// WithSchemaFile is WithSchema loading the schema from a file, resolved
// relative to the store's base directory.
func WithSchemaFile(path string) Option {
	return func(s *Store) {
		s.schemaPath = path
	}
}

// WithScanOptions forwards options to the verification scanner.
func WithScanOptions(opts ...fieldscan.Option) Option {
	return func(s *Store) {
		s.scanOpts = append(s.scanOpts, opts...)
	}
}

// WithParallelism bounds how many goldens VerifyAll checks at once.
func WithParallelism(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.parallelism = n
		}
	}
}

// NewStore builds a store rooted at baseDir.
func NewStore(baseDir string, opts ...Option) *Store {
	s := &Store{
		baseDir:     baseDir,
		scope:       member.AllFields,
		format:      FormatJSON,
		parallelism: 4,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record captures the live value as the golden named name, preserving the
// identity of an existing file when its content actually changed.
func (s *Store) Record(name string, live any) error {
	path, err := s.filePath(name)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(live, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	if err := s.validateSchema(data); err != nil {
		return fmt.Errorf("recording %s: %w", name, err)
	}
	sum, err := fingerprint(data)
	if err != nil {
		return fmt.Errorf("recording %s: %w", name, err)
	}

	f := File{
		Version:    Version,
		ID:         uuid.New().String(),
		RecordedAt: time.Now().UTC(),
		Checksum:   sum,
		Data:       data,
	}
	if existing, loadErr := s.load(path); loadErr == nil {
		if existing.Checksum == sum {
			// Content unchanged, leave the file alone.
			return nil
		}
		if existing.ID != "" {
			f.ID = existing.ID
		}
	}

	raw, err := encodeFile(f, s.format)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("recording %s: %w", name, err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("recording %s: %w", name, err)
	}
	return nil
}

// Verify checks the live value against the golden named name. The golden
// is the expected side of the scan: every recorded member must match,
// while live members the recording never saw are tolerated. In update
// mode a missing or stale golden is written instead of reported.
func (s *Store) Verify(name string, live any) error {
	path, err := s.filePath(name)
	if err != nil {
		return err
	}

	f, err := s.load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if s.update {
				return s.Record(name, live)
			}
			return fmt.Errorf("%s: %w (enable update mode to record it)", name, ErrMissing)
		}
		return fmt.Errorf("loading %s: %w", name, err)
	}

	if err := s.validateSchema(f.Data); err != nil {
		return fmt.Errorf("verifying %s: %w", name, err)
	}

	records, err := fieldscan.NewScanner(s.scope, s.scanOpts...).Scan(live, gjson.ParseBytes(f.Data))
	if err != nil {
		return fmt.Errorf("verifying %s: %w", name, err)
	}
	outs := mismatch.EvaluateAll(records, false)
	if len(outs) == 0 {
		return nil
	}
	if s.update {
		return s.Record(name, live)
	}
	return &check.Failure{Subject: name, Outcomes: outs}
}

// VerifyAll checks a set of goldens concurrently and reports the first
// failure. Verification is read-only unless the store is in update mode.
func (s *Store) VerifyAll(ctx context.Context, entries map[string]any) error {
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(s.parallelism)

	for name, live := range entries {
		name, live := name, live
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return s.Verify(name, live)
		})
	}
	return group.Wait()
}

func (s *Store) filePath(name string) (string, error) {
	if name == "" {
		return "", errors.New("golden name is empty")
	}
	path := filepath.Join(s.baseDir, name+s.format.ext())
	if err := validatePathWithinBase(path, s.baseDir); err != nil {
		return "", err
	}
	return path, nil
}

func (s *Store) load(path string) (File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	return decodeFile(raw, s.format)
}

func (s *Store) validateSchema(data json.RawMessage) error {
	schema := s.schema
	if schema == nil && s.schemaPath != "" {
		path := s.schemaPath
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.baseDir, path)
		}
		if err := validatePathWithinBase(path, s.baseDir); err != nil {
			return err
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading schema: %w", err)
		}
		schema = raw
	}
	if schema == nil {
		return nil
	}

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schema), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var details []string
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("%w: %s", ErrSchema, strings.Join(details, "; "))
}

// validatePathWithinBase checks that the resolved path stays within the
// base directory to prevent path traversal through golden names.
func validatePathWithinBase(path, baseDir string) error {
	if baseDir == "" {
		return nil
	}

	cleanBase, err := filepath.Abs(baseDir)
	if err != nil {
		return fmt.Errorf("failed to resolve base directory: %v", err)
	}
	cleanPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %v", err)
	}

	if !strings.HasPrefix(cleanPath, cleanBase+string(filepath.Separator)) && cleanPath != cleanBase {
		return fmt.Errorf("path traversal detected: %s is outside allowed directory %s", path, baseDir)
	}
	return nil
}
