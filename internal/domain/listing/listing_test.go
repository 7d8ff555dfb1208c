package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptions_Resolve(t *testing.T) {
	def := Order{Column: "created_at"}
	allowed := []string{"created_at", "title"}

	tests := []struct {
		name string
		opts Options
		want Order
	}{
		{"default", Options{}, def},
		{"allowed column", Options{OrderBy: "Title"}, Order{Column: "title"}},
		{"unknown column falls back", Options{OrderBy: "password_hash; drop"}, def},
		{"ascending", Options{OrderBy: "title", Direction: "ASC"}, Order{Column: "title", Ascending: true}},
		{"bad direction keeps default", Options{Direction: "sideways"}, def},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.opts.Resolve(def, allowed...))
		})
	}
}

func TestOrder_SQL(t *testing.T) {
	assert.Equal(t, "title ASC", Order{Column: "title", Ascending: true}.SQL())
	assert.Equal(t, "created_at DESC", Order{Column: "created_at"}.SQL())
}

func TestOptions_ResolvedLimit(t *testing.T) {
	assert.Equal(t, 0, Options{Limit: -3}.ResolvedLimit())
	assert.Equal(t, 5, Options{Limit: 5}.ResolvedLimit())
	assert.Equal(t, MaxLimit, Options{Limit: 1000}.ResolvedLimit())
}

func TestOrder_CacheKey(t *testing.T) {
	def := Order{Column: "created_at"}
	allowed := []string{"created_at", "title"}

	key := func(o Options) []string {
		return o.Resolve(def, allowed...).CacheKey(o.ResolvedLimit())
	}

	assert.Equal(t, []string{"title", "asc", "100"}, key(Options{OrderBy: "Title", Direction: "ASC", Limit: 500}))
	assert.Equal(t, []string{"created_at", "desc", "0"}, key(Options{}))
	assert.Equal(t, key(Options{}), key(Options{OrderBy: "junk1", Direction: "sideways"}))
	assert.Equal(t, key(Options{OrderBy: "junk1"}), key(Options{OrderBy: "junk2"}))
}
