package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldsLastWriteWinsKeepsPosition(t *testing.T) {
	f := NewFields()
	f.Set("name", "Ann")
	f.Set("ideaName", "Widget")
	f.Set("name", "Bob")

	assert.Equal(t, []string{"name", "ideaName"}, f.Keys())
	v, ok := f.Get("name")
	assert.True(t, ok)
	assert.Equal(t, "Bob", v)
	assert.Equal(t, 2, f.Len())
}

func TestFieldsGetOrDefault(t *testing.T) {
	f := NewFields()
	f.Set("name", "")

	assert.Equal(t, "", f.GetOrDefault("name", "unknown"))
	assert.Equal(t, "idea", f.GetOrDefault("ideaName", "idea"))

	var nilFields *Fields
	assert.Equal(t, "x", nilFields.GetOrDefault("k", "x"))
	assert.Equal(t, 0, nilFields.Len())
}

func TestFieldsRangeStops(t *testing.T) {
	f := NewFields()
	f.Set("a", "1")
	f.Set("b", "2")
	f.Set("c", "3")

	var seen []string
	f.Range(func(k, v string) bool {
		seen = append(seen, k+"="+v)
		return k != "b"
	})
	assert.Equal(t, []string{"a=1", "b=2"}, seen)
}

func TestSubmissionAttachmentCount(t *testing.T) {
	s := NewSubmission()
	assert.True(t, s.IsEmpty())

	s.Attachments = append(s.Attachments,
		Attachment{FieldName: "photo", Filename: "a.png"},
		Attachment{FieldName: "photo", Filename: "b.png"},
		Attachment{FieldName: "doc", Filename: "c.pdf"},
	)
	assert.False(t, s.IsEmpty())
	assert.Equal(t, 2, s.AttachmentCount("photo"))
	assert.Equal(t, 0, s.AttachmentCount("video"))
}
