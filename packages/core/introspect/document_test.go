package introspect

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/abdul-hamid-achik/fieldcheck/packages/core/member"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestDocumentMembersObjectOrder(t *testing.T) {
	doc := gjson.Parse(`{"zeta": 1, "alpha": 2, "mid": 3}`)

	descs := Document{}.Members(reflect.ValueOf(doc), defaultCfg(member.PublicFields))

	// Document order, not lexical order.
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, memberNames(descs))
	assert.Equal(t, float64(1), descs[0].Value)
}

func TestDocumentMembersMangledKeys(t *testing.T) {
	doc := gjson.Parse(`{"Plain": 1, "<Total>k__BackingField": 2, "$Anon": 3}`)

	public := Document{}.Members(reflect.ValueOf(doc), defaultCfg(member.PublicFields))
	assert.Equal(t, []string{"Plain"}, memberNames(public))

	nonPublic := Document{}.Members(reflect.ValueOf(doc), defaultCfg(member.NonPublicFields))
	require.Len(t, nonPublic, 2)
	assert.Equal(t, "Total", nonPublic[0].Name)
	assert.Equal(t, member.KindAutoProperty, nonPublic[0].Kind)
	assert.Equal(t, "<Total>k__BackingField", nonPublic[0].RawName)
	assert.Equal(t, "Anon", nonPublic[1].Name)
	assert.Equal(t, member.KindAnonymousField, nonPublic[1].Kind)
}

func TestDocumentMembersArray(t *testing.T) {
	doc := gjson.Parse(`[10, 20, 30]`)

	// Array elements are contents: enumerated even under an empty scope.
	descs := Document{}.Members(reflect.ValueOf(doc), defaultCfg(0))

	require.Len(t, descs, 3)
	assert.Equal(t, "[0]", descs[0].Name)
	assert.Equal(t, float64(20), descs[1].Value)
}

func TestDocumentMembersNestedComposite(t *testing.T) {
	doc := gjson.Parse(`{"inner": {"a": 1}, "leaf": "x"}`)

	descs := Document{}.Members(reflect.ValueOf(doc), defaultCfg(member.PublicFields))

	require.Len(t, descs, 2)
	inner, ok := descs[0].Value.(gjson.Result)
	require.True(t, ok, "composite children stay documents")
	assert.True(t, inner.IsObject())
	assert.Equal(t, "x", descs[1].Value)
}

func TestDocumentFind(t *testing.T) {
	doc := gjson.Parse(`{"<Total>k__BackingField": 2, "name": "a"}`)
	v := reflect.ValueOf(doc)
	cfg := defaultCfg(member.PublicFields)

	// Raw-name match, even for keys gjson path syntax would trip over.
	d, ok := Document{}.Find(v, lookup("<Total>k__BackingField"), cfg)
	require.True(t, ok)
	assert.Equal(t, float64(2), d.Value)

	// Demangled-name match when the raw names differ.
	d, ok = Document{}.Find(v, lookup("Total"), cfg)
	require.True(t, ok)
	assert.Equal(t, member.KindAutoProperty, d.Kind)

	_, ok = Document{}.Find(v, lookup("missing"), cfg)
	assert.False(t, ok)
}

func TestDocumentFindByStructField(t *testing.T) {
	doc := gjson.Parse(`{"full_name": "Ada", "age": 9}`)
	v := reflect.ValueOf(doc)
	cfg := defaultCfg(member.PublicFields)

	// A struct field carrying a json tag locates its serialized key.
	want := lookup("FullName")
	want.Tag = "full_name"
	d, ok := Document{}.Find(v, want, cfg)
	require.True(t, ok)
	assert.Equal(t, "Ada", d.Value)

	// Without a tag the case fold still bridges Go naming to wire naming.
	d, ok = Document{}.Find(v, lookup("Age"), cfg)
	require.True(t, ok)
	assert.Equal(t, float64(9), d.Value)
}

func TestDocumentFindArrayIndex(t *testing.T) {
	doc := gjson.Parse(`["a", "b"]`)
	v := reflect.ValueOf(doc)

	d, ok := Document{}.Find(v, lookup("[1]"), defaultCfg(member.PublicFields))
	require.True(t, ok)
	assert.Equal(t, "b", d.Value)

	_, ok = Document{}.Find(v, lookup("[2]"), defaultCfg(member.PublicFields))
	assert.False(t, ok)
}

func TestDocumentSupportsRawMessage(t *testing.T) {
	raw := json.RawMessage(`{"a": 1}`)
	assert.True(t, Document{}.Supports(reflect.ValueOf(raw)))

	descs := Document{}.Members(reflect.ValueOf(raw), defaultCfg(member.PublicFields))
	require.Len(t, descs, 1)
	assert.Equal(t, "a", descs[0].Name)
}

func TestDefaultChainDispatch(t *testing.T) {
	chain := DefaultChain()

	in, ok := For(chain, reflect.ValueOf(gjson.Parse(`{}`)))
	require.True(t, ok)
	assert.IsType(t, Document{}, in)

	in, ok = For(chain, reflect.ValueOf(widget{}))
	require.True(t, ok)
	assert.IsType(t, Struct{}, in)

	in, ok = For(chain, reflect.ValueOf([]int{}))
	require.True(t, ok)
	assert.IsType(t, Collection{}, in)

	_, ok = For(chain, reflect.ValueOf(42))
	assert.False(t, ok)
}
