// Package names is the read-only dictionary that maps opaque symbol references
// (":1029") to human names and, for a few entries, a declared signature.
//
// A Dictionary is built once per run and never mutated afterwards, so it may
// be shared freely. The nil *Dictionary is valid and empty.
package names

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

////////////////////////////////////////////////////////////////////////////////
//                                  PUBLIC API
////////////////////////////////////////////////////////////////////////////////

// Kind classifies a declared type.
type Kind int

const (
	KindUnknown Kind = iota
	KindInt
	KindBool
	KindList
	KindFunc
)

var kindNames = map[string]Kind{
	"":     KindUnknown,
	"int":  KindInt,
	"bool": KindBool,
	"list": KindList,
}

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindFunc:
		return "func"
	}
	return "unknown"
}

// Type is a declared type. For KindFunc, Arity counts the parameters and
// Returns is the result kind.
type Type struct {
	Kind    Kind
	Arity   int
	Returns Kind
}

// Func builds the type of an arity-n function returning ret.
func Func(arity int, ret Kind) Type { return Type{Kind: KindFunc, Arity: arity, Returns: ret} }

// String renders t as "int" or "func/2 -> bool".
func (t Type) String() string {
	if t.Kind != KindFunc {
		return t.Kind.String()
	}
	return "func/" + strconv.Itoa(t.Arity) + " -> " + t.Returns.String()
}

// Entry is one dictionary row. Typed is false when no signature is known.
type Entry struct {
	Ref   string
	Name  string
	Type  Type
	Typed bool
}

// Dictionary is an immutable ref → Entry lookup.
type Dictionary struct {
	byRef map[string]Entry
	refs  []string
}

// New builds a dictionary from entries. Later duplicates of a ref are an error.
func New(entries ...Entry) (*Dictionary, error) {
	d := &Dictionary{byRef: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		if e.Ref == "" {
			return nil, fmt.Errorf("names: entry %q has an empty ref", e.Name)
		}
		if _, dup := d.byRef[e.Ref]; dup {
			return nil, fmt.Errorf("names: duplicate ref %q", e.Ref)
		}
		d.byRef[e.Ref] = e
		d.refs = append(d.refs, e.Ref)
	}
	return d, nil
}

// Load decodes a JSON dictionary:
//
//	{"symbols": [{"ref": ":1124", "name": "List.mem", "arity": 2, "returns": "bool"}]}
//
// "arity" and "returns" are optional. An entry with only "returns" declares a
// value of that kind; an entry with "arity" declares a function.
func Load(r io.Reader) (*Dictionary, error) {
	var doc struct {
		Symbols []jsonEntry `json:"symbols"`
	}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("names: decode: %w", err)
	}
	entries := make([]Entry, 0, len(doc.Symbols))
	for _, je := range doc.Symbols {
		e, err := je.entry()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return New(entries...)
}

// LoadFile reads a JSON dictionary from path.
func LoadFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Default returns the embedded galaxy dictionary.
func Default() *Dictionary {
	defaultOnce.Do(func() {
		d, err := Load(strings.NewReader(galaxyJSON))
		if err != nil {
			panic(err)
		}
		defaultDict = d
	})
	return defaultDict
}

// Name returns the human name of ref.
func (d *Dictionary) Name(ref string) (string, bool) {
	e, ok := d.Lookup(ref)
	return e.Name, ok
}

// Type returns the declared type of ref, if it has one.
func (d *Dictionary) Type(ref string) (Type, bool) {
	e, ok := d.Lookup(ref)
	if !ok || !e.Typed {
		return Type{}, false
	}
	return e.Type, true
}

// Lookup returns the whole entry for ref.
func (d *Dictionary) Lookup(ref string) (Entry, bool) {
	if d == nil {
		return Entry{}, false
	}
	e, ok := d.byRef[ref]
	return e, ok
}

// Refs lists every ref in load order. The slice is a copy.
func (d *Dictionary) Refs() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.refs...)
}

// Len is the number of entries.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.refs)
}

// Search ranks entries whose name or ref fuzzily matches query, closest
// first. Ties keep load order.
func (d *Dictionary) Search(query string) []Entry {
	if d.Len() == 0 {
		return nil
	}
	targets := make([]string, len(d.refs))
	for i, ref := range d.refs {
		targets[i] = ref + " " + d.byRef[ref].Name
	}
	ranks := fuzzy.RankFindFold(query, targets)
	sort.Stable(ranks)
	out := make([]Entry, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, d.byRef[d.refs[r.OriginalIndex]])
	}
	return out
}

//// END_OF_PUBLIC

////////////////////////////////////////////////////////////////////////////////
//                            PRIVATE IMPLEMENTATION
////////////////////////////////////////////////////////////////////////////////

//go:embed galaxy.json
var galaxyJSON string

var (
	defaultOnce sync.Once
	defaultDict *Dictionary
)

type jsonEntry struct {
	Ref     string `json:"ref"`
	Name    string `json:"name"`
	Arity   *int   `json:"arity,omitempty"`
	Returns string `json:"returns,omitempty"`
}

func (je jsonEntry) entry() (Entry, error) {
	e := Entry{Ref: je.Ref, Name: je.Name}
	if e.Name == "" {
		e.Name = je.Ref
	}
	ret, ok := kindNames[je.Returns]
	if !ok {
		return Entry{}, fmt.Errorf("names: %s: unknown return kind %q", je.Ref, je.Returns)
	}
	switch {
	case je.Arity != nil:
		if *je.Arity < 0 {
			return Entry{}, fmt.Errorf("names: %s: negative arity %d", je.Ref, *je.Arity)
		}
		e.Type, e.Typed = Func(*je.Arity, ret), true
	case ret != KindUnknown:
		e.Type, e.Typed = Type{Kind: ret}, true
	}
	return e, nil
}
