package scrape_test

import (
	"encoding/json"
	"testing"

	"github.com/fwojciec/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_MarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("keeps field order and encodes absent values as null", func(t *testing.T) {
		t.Parallel()

		r := scrape.Record{
			{Name: "zeta", Value: scrape.String("last letter")},
			{Name: "alpha", Value: nil},
		}

		b, err := json.Marshal(r)

		require.NoError(t, err)
		assert.Equal(t, `{"zeta":"last letter","alpha":null}`, string(b))
	})

	t.Run("leaves non-ASCII text literal", func(t *testing.T) {
		t.Parallel()

		r := scrape.Record{{Name: "quote", Value: scrape.String("“Café” – naïve")}}

		b, err := r.MarshalJSON()

		require.NoError(t, err)
		assert.Equal(t, `{"quote":"“Café” – naïve"}`, string(b))
	})

	t.Run("empty record encodes as empty object", func(t *testing.T) {
		t.Parallel()

		b, err := json.Marshal(scrape.Record{})

		require.NoError(t, err)
		assert.Equal(t, `{}`, string(b))
	})
}

func TestRecord_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("preserves key order and nulls", func(t *testing.T) {
		t.Parallel()

		var r scrape.Record
		err := json.Unmarshal([]byte(`{"quote": "hello", "author": null, "tags": "a"}`), &r)

		require.NoError(t, err)
		assert.Equal(t, []string{"quote", "author", "tags"}, r.Keys())
		v, ok := r.Get("author")
		assert.True(t, ok)
		assert.Nil(t, v)
		v, ok = r.Get("quote")
		require.True(t, ok)
		assert.Equal(t, "hello", *v)
	})

	t.Run("rejects non-string values", func(t *testing.T) {
		t.Parallel()

		var r scrape.Record
		err := json.Unmarshal([]byte(`{"count": 3}`), &r)

		assert.Error(t, err)
	})

	t.Run("rejects non-object input", func(t *testing.T) {
		t.Parallel()

		var r scrape.Record
		err := json.Unmarshal([]byte(`["a"]`), &r)

		assert.Error(t, err)
	})
}

func TestRecord_Get_MissingKey(t *testing.T) {
	t.Parallel()

	r := scrape.Record{{Name: "quote", Value: scrape.String("x")}}

	_, ok := r.Get("author")
	assert.False(t, ok)
}

func TestRecord_Compact(t *testing.T) {
	t.Parallel()

	r := scrape.Record{
		{Name: "quote", Value: scrape.String("x")},
		{Name: "author"},
	}

	assert.Equal(t, []string{"quote"}, r.Compact().Keys())
	assert.Len(t, r, 2, "compact must not modify the original")
}
