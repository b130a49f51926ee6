package book

import (
	"slices"
	"strings"
)

// Directory maps contact names to records and remembers insertion order.
// Every key equals the Name of the record it maps to.
type Directory struct {
	records map[string]*Record
	order   []string
}

// NewDirectory returns an empty directory.
func NewDirectory() *Directory {
	return &Directory{records: make(map[string]*Record)}
}

// AddRecord stores r under its name. An existing entry with the same name is
// replaced in place and keeps its position.
func (d *Directory) AddRecord(r *Record) {
	key := string(r.name)
	if _, ok := d.records[key]; !ok {
		d.order = append(d.order, key)
	}
	d.records[key] = r
}

// Find looks a record up by name.
func (d *Directory) Find(name string) (*Record, bool) {
	r, ok := d.records[name]
	return r, ok
}

// Delete removes name. Unknown names are ignored.
func (d *Directory) Delete(name string) {
	if _, ok := d.records[name]; !ok {
		return
	}
	delete(d.records, name)
	d.order = slices.DeleteFunc(d.order, func(k string) bool { return k == name })
}

// Len returns the number of contacts.
func (d *Directory) Len() int { return len(d.records) }

// Records returns the records in insertion order.
func (d *Directory) Records() []*Record {
	out := make([]*Record, 0, len(d.order))
	for _, k := range d.order {
		out = append(out, d.records[k])
	}
	return out
}

// Names returns the keys in insertion order.
func (d *Directory) Names() []string { return slices.Clone(d.order) }

func (d *Directory) String() string {
	lines := make([]string, 0, len(d.order))
	for _, r := range d.Records() {
		lines = append(lines, r.String())
	}
	return strings.Join(lines, "\n")
}
