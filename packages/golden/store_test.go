package golden

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/abdul-hamid-achik/fieldcheck/packages/check"
	"github.com/abdul-hamid-achik/fieldcheck/packages/core/member"
	"github.com/abdul-hamid-achik/fieldcheck/packages/mismatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type user struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

func TestRecordAndVerify(t *testing.T) {
	s := NewStore(t.TempDir())

	require.NoError(t, s.Record("user", user{Name: "Ada", Age: 30}))
	assert.NoError(t, s.Verify("user", user{Name: "Ada", Age: 30}))
}

func TestVerifyMissingGolden(t *testing.T) {
	s := NewStore(t.TempDir())

	err := s.Verify("user", user{Name: "Ada"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissing)
	assert.Contains(t, err.Error(), "enable update mode")
}

func TestVerifyRecordsMissingInUpdateMode(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, WithUpdate(true))

	require.NoError(t, s.Verify("user", user{Name: "Ada", Age: 30}))

	_, err := os.Stat(filepath.Join(dir, "user.golden.json"))
	assert.NoError(t, err)

	// The freshly recorded golden verifies cleanly without update mode.
	assert.NoError(t, NewStore(dir).Verify("user", user{Name: "Ada", Age: 30}))
}

func TestVerifyDetectsDrift(t *testing.T) {
	s := NewStore(t.TempDir())
	require.NoError(t, s.Record("user", user{Name: "Ada", Age: 30}))

	err := s.Verify("user", user{Name: "Ada", Age: 31})
	require.Error(t, err)

	f, ok := check.AsFailure(err)
	require.True(t, ok)
	require.Len(t, f.Outcomes, 1)
	assert.Equal(t, mismatch.ValuesDiffer, f.Outcomes[0].Kind)
	assert.Equal(t, "age", f.Outcomes[0].Path)
	assert.Contains(t, err.Error(), "The user's field 'age' does not have the expected value.")
}

func TestVerifyToleratesNewLiveFields(t *testing.T) {
	type wideUser struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
		Nick string `json:"nick"`
	}

	s := NewStore(t.TempDir())
	require.NoError(t, s.Record("user", user{Name: "Ada", Age: 30}))

	// Members the recording never saw do not fail verification.
	assert.NoError(t, s.Verify("user", wideUser{Name: "Ada", Age: 30, Nick: "ada"}))
}

func TestUpdateRewritesStaleGolden(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, WithUpdate(true))
	require.NoError(t, s.Record("user", user{Name: "Ada", Age: 30}))

	path := filepath.Join(dir, "user.golden.json")
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, s.Verify("user", user{Name: "Ada", Age: 31}))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, int64(31), gjson.GetBytes(after, "data.age").Int())

	// A rewrite keeps the golden's identity, only the content moves.
	assert.Equal(t, gjson.GetBytes(before, "id").String(), gjson.GetBytes(after, "id").String())
	assert.NotEqual(t, gjson.GetBytes(before, "checksum").Uint(), gjson.GetBytes(after, "checksum").Uint())
}

func TestRecordLeavesUnchangedContentAlone(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	require.NoError(t, s.Record("user", user{Name: "Ada", Age: 30}))

	path := filepath.Join(dir, "user.golden.json")
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, s.Record("user", user{Name: "Ada", Age: 30}))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestYAMLFormat(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir, WithFormat(FormatYAML))

	require.NoError(t, s.Record("user", user{Name: "Ada", Age: 30}))

	raw, err := os.ReadFile(filepath.Join(dir, "user.golden.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "version: 1")
	assert.Contains(t, string(raw), "name: Ada")

	assert.NoError(t, s.Verify("user", user{Name: "Ada", Age: 30}))

	err = s.Verify("user", user{Name: "Eve", Age: 30})
	require.Error(t, err)
	f, _ := check.AsFailure(err)
	assert.Equal(t, "name", f.Outcomes[0].Path)
}

func TestSchemaValidation(t *testing.T) {
	dir := t.TempDir()
	schema := []byte(`{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`)

	s := NewStore(dir, WithSchema(schema))
	require.NoError(t, s.Record("user", user{Name: "Ada", Age: 30}))
	assert.NoError(t, s.Verify("user", user{Name: "Ada", Age: 30}))

	// Data violating the schema is refused at recording time.
	err := s.Record("bad", map[string]any{"age": 3})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchema)

	// And at verification time, when an unchecked store recorded it.
	require.NoError(t, NewStore(dir).Record("bad", map[string]any{"age": 3}))
	err = s.Verify("bad", map[string]any{"age": 3})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchema)
}

func TestSchemaFromFile(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "envelope.schema.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(`{"type": "object", "required": ["name"]}`), 0644))

	s := NewStore(dir, WithSchemaFile("envelope.schema.json"))
	require.NoError(t, s.Record("user", user{Name: "Ada"}))

	err := s.Record("bad", map[string]any{"age": 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchema)
}

func TestPathTraversalRejected(t *testing.T) {
	s := NewStore(t.TempDir())

	err := s.Verify("../escape", user{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path traversal")

	err = s.Record("../../etc/owned", user{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path traversal")
}

func TestNestedGoldenNames(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	require.NoError(t, s.Record("api/v1/user", user{Name: "Ada"}))

	_, err := os.Stat(filepath.Join(dir, "api", "v1", "user.golden.json"))
	assert.NoError(t, err)
	assert.NoError(t, s.Verify("api/v1/user", user{Name: "Ada"}))
}

func TestScopeLimitsVerification(t *testing.T) {
	dir := t.TempDir()
	recorded := map[string]any{"name": "x", "<Secret>k__BackingField": 1}

	require.NoError(t, NewStore(dir).Record("doc", recorded))

	drifted := map[string]any{"name": "x", "<Secret>k__BackingField": 2}

	// Under the default all-fields scope the decorated key participates.
	assert.Error(t, NewStore(dir).Verify("doc", drifted))

	// Restricting to public fields drops it from the comparison.
	assert.NoError(t, NewStore(dir, WithScope(member.PublicFields)).Verify("doc", drifted))
}

func TestVerifyAll(t *testing.T) {
	s := NewStore(t.TempDir())
	require.NoError(t, s.Record("a", user{Name: "Ada", Age: 1}))
	require.NoError(t, s.Record("b", user{Name: "Bob", Age: 2}))

	err := s.VerifyAll(context.Background(), map[string]any{
		"a": user{Name: "Ada", Age: 1},
		"b": user{Name: "Bob", Age: 2},
	})
	assert.NoError(t, err)

	err = s.VerifyAll(context.Background(), map[string]any{
		"a": user{Name: "Ada", Age: 1},
		"b": user{Name: "Bob", Age: 99},
	})
	require.Error(t, err)
	_, ok := check.AsFailure(err)
	assert.True(t, ok)
}

func TestVerifyAllHonorsContext(t *testing.T) {
	s := NewStore(t.TempDir())
	require.NoError(t, s.Record("a", user{Name: "Ada"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.VerifyAll(ctx, map[string]any{"a": user{Name: "Ada"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFingerprintIgnoresKeyOrder(t *testing.T) {
	a, err := fingerprint([]byte(`{"x": 1, "y": 2}`))
	require.NoError(t, err)
	b, err := fingerprint([]byte(`{"y": 2, "x": 1}`))
	require.NoError(t, err)
	c, err := fingerprint([]byte(`{"x": 1, "y": 3}`))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	// Formatting does not matter either.
	d, err := fingerprint([]byte("{\n  \"x\": 1,\n  \"y\": 2\n}"))
	require.NoError(t, err)
	assert.Equal(t, a, d)
}

func TestEmptyNameRejected(t *testing.T) {
	s := NewStore(t.TempDir())
	assert.Error(t, s.Record("", user{}))
	assert.Error(t, s.Verify("", user{}))
}
