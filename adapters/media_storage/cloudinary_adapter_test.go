package media_storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicIDFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
		ok   bool
	}{
		{
			name: "versioned",
			url:  "https://res.cloudinary.com/demo/image/upload/v1712345678/portfolio/owner/project/abc.png",
			want: "portfolio/owner/project/abc",
			ok:   true,
		},
		{
			name: "with transformation",
			url:  "https://res.cloudinary.com/demo/image/upload/c_fill,w_300/v1/portfolio/avatar/me.jpg",
			want: "portfolio/avatar/me",
			ok:   true,
		},
		{
			name: "no version",
			url:  "https://res.cloudinary.com/demo/image/upload/sample.webp",
			want: "sample",
			ok:   true,
		},
		{name: "other cloud", url: "https://res.cloudinary.com/other/image/upload/v1/a.png"},
		{name: "foreign host", url: "https://images.example.com/demo/image/upload/v1/a.png"},
		{name: "not an upload", url: "https://res.cloudinary.com/demo/image/fetch/v1/a.png"},
		{name: "version only", url: "https://res.cloudinary.com/demo/image/upload/v12"},
		{name: "garbage", url: "://nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PublicIDFromURL("demo", tt.url)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
