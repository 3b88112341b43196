package types

// Fields is an insertion-ordered string map. Setting an existing key
// replaces the value and keeps the key at its original position.
type Fields struct {
	keys   []string
	values map[string]string
}

func NewFields() *Fields {
	return &Fields{values: make(map[string]string)}
}

func (f *Fields) Set(key, value string) {
	if f.values == nil {
		f.values = make(map[string]string)
	}
	if _, ok := f.values[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.values[key] = value
}

func (f *Fields) Get(key string) (string, bool) {
	if f == nil {
		return "", false
	}
	v, ok := f.values[key]
	return v, ok
}

func (f *Fields) GetOrDefault(key, def string) string {
	if v, ok := f.Get(key); ok {
		return v
	}
	return def
}

func (f *Fields) Len() int {
	if f == nil {
		return 0
	}
	return len(f.keys)
}

// Keys returns a copy of the keys in insertion order.
func (f *Fields) Keys() []string {
	if f == nil {
		return nil
	}
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

// Range calls fn for every pair in insertion order until fn returns false.
func (f *Fields) Range(fn func(key, value string) bool) {
	if f == nil {
		return
	}
	for _, k := range f.keys {
		if !fn(k, f.values[k]) {
			return
		}
	}
}

// Submission is the decoded content of one form upload.
type Submission struct {
	Fields      *Fields
	Attachments []Attachment
}

func NewSubmission() *Submission {
	return &Submission{Fields: NewFields()}
}

func (s *Submission) IsEmpty() bool {
	return s.Fields.Len() == 0 && len(s.Attachments) == 0
}

// AttachmentCount returns the number of attachments sent under field.
func (s *Submission) AttachmentCount(field string) int {
	n := 0
	for i := range s.Attachments {
		if s.Attachments[i].FieldName == field {
			n++
		}
	}
	return n
}
