package jsondoc

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalScalars(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want string
	}{
		{"null", Null(), `null`},
		{"string", String("Ann"), `"Ann"`},
		{"escapes", String("a\\b\"c\nd\re"), `"a\\b\"c\nd\re"`},
		{"control", String("tab\there\x01"), `"tab\u0009here\u0001"`},
		{"unicode raw", String("Idée ✓"), `"Idée ✓"`},
		{"html untouched", String("<a&b>"), `"<a&b>"`},
		{"int", Int(-42), `-42`},
		{"float", Float(1.5), `1.5`},
		{"nan", Float(math.NaN()), `null`},
		{"inf", Float(math.Inf(1)), `null`},
		{"true", Bool(true), `true`},
		{"false", Bool(false), `false`},
		{"nil object", ObjectValue(nil), `null`},
		{"empty array", Array(), `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(Marshal(tt.in)))
		})
	}
}

func TestMarshalKeepsInsertionOrder(t *testing.T) {
	file := NewObject().
		SetString("filename", "my_photo.png").
		SetString("field", "photo").
		SetString("contentType", "image/png")

	doc := NewObject().
		SetString("timestamp", "2026-10-18T12:00:00").
		SetString("name", "Ann").
		SetString("ideaName", "Widget").
		Set("files", Array(ObjectValue(file)))

	doc.SetString("name", "Bob")

	want := `{"timestamp":"2026-10-18T12:00:00","name":"Bob","ideaName":"Widget",` +
		`"files":[{"filename":"my_photo.png","field":"photo","contentType":"image/png"}]}`
	assert.Equal(t, want, string(Marshal(ObjectValue(doc))))
}

func TestStringRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		`quote " and backslash \`,
		"multi\nline\r\ntext",
		"tabs\tand\x00nul\x1f",
		"ünïcödé and emoji 🚀",
		"</script>",
	}

	for _, in := range inputs {
		obj := NewObject().SetString("v", in)
		var out map[string]string
		require.NoError(t, json.Unmarshal(Marshal(ObjectValue(obj)), &out), "input %q", in)
		assert.Equal(t, in, out["v"])
	}
}
