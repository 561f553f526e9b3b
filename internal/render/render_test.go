package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type page struct {
	Title string `json:"title" yaml:"title" toml:"title"`
	Demo  bool   `json:"demo" yaml:"demo" toml:"demo"`
}

func TestNew(t *testing.T) {
	p := page{Title: "SMTP Settings", Demo: true}

	tests := []struct {
		format string
		want   string
	}{
		{"json", "{\n  \"title\": \"SMTP Settings\",\n  \"demo\": true\n}\n"},
		{"yaml", "title: SMTP Settings\ndemo: true\n"},
		{"", "title: SMTP Settings\ndemo: true\n"},
		{"TOML", "title = 'SMTP Settings'\ndemo = true\n"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			r, err := New(tt.format)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, r.Render(&buf, p))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New("xml")
	assert.ErrorContains(t, err, "xml")
}
