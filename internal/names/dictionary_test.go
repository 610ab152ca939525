package names

import (
	"strings"
	"testing"
)

func mustLoad(t *testing.T, src string) *Dictionary {
	t.Helper()
	d, err := Load(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Load error: %v\nsource:\n%s", err, src)
	}
	return d
}

func Test_Dictionary_Default_Galaxy_Entries(t *testing.T) {
	d := Default()
	if d.Len() != 204 {
		t.Fatalf("expected 204 entries, got %d", d.Len())
	}
	if n, ok := d.Name(":1029"); !ok || n != "Bitmap.Galaxy" {
		t.Fatalf(":1029: got %q, %v", n, ok)
	}
	typ, ok := d.Type(":1124")
	if !ok || typ != Func(2, KindBool) {
		t.Fatalf(":1124 type: got %+v, %v", typ, ok)
	}
	if _, ok := d.Type(":1029"); ok {
		t.Fatalf(":1029 should be untyped")
	}
	if refs := d.Refs(); refs[0] != ":1029" || refs[len(refs)-1] != ":1490" {
		t.Fatalf("load order lost: first %s, last %s", refs[0], refs[len(refs)-1])
	}
	if Default() != d {
		t.Fatalf("Default should be loaded once")
	}
}

func Test_Dictionary_Load_Types(t *testing.T) {
	d := mustLoad(t, `{"symbols": [
		{"ref": ":1", "name": "Pred", "arity": 3, "returns": "bool"},
		{"ref": ":2", "name": "Flag", "returns": "bool"},
		{"ref": ":3", "name": "Items", "returns": "list"},
		{"ref": ":4"}
	]}`)
	cases := []struct {
		ref   string
		want  Type
		typed bool
	}{
		{":1", Func(3, KindBool), true},
		{":2", Type{Kind: KindBool}, true},
		{":3", Type{Kind: KindList}, true},
		{":4", Type{}, false},
	}
	for _, tc := range cases {
		got, ok := d.Type(tc.ref)
		if ok != tc.typed || got != tc.want {
			t.Fatalf("%s: want %+v/%v, got %+v/%v", tc.ref, tc.want, tc.typed, got, ok)
		}
	}
	if n, _ := d.Name(":4"); n != ":4" {
		t.Fatalf("missing name should default to the ref, got %q", n)
	}
}

func Test_Dictionary_Load_Errors(t *testing.T) {
	bad := map[string]string{
		`{"symbols": [{"ref": ":1"}, {"ref": ":1"}]}`:         "duplicate ref",
		`{"symbols": [{"name": "x"}]}`:                        "empty ref",
		`{"symbols": [{"ref": ":1", "returns": "string"}]}`:   "unknown return kind",
		`{"symbols": [{"ref": ":1", "arity": -1}]}`:           "negative arity",
		`{"symbols": [{"ref": ":1", "signature": "a -> b"}]}`: "decode",
		`not json`: "decode",
	}
	for src, want := range bad {
		_, err := Load(strings.NewReader(src))
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Fatalf("source %s: expected error containing %q, got %v", src, want, err)
		}
	}
}

func Test_Dictionary_Nil_Is_Empty(t *testing.T) {
	var d *Dictionary
	if _, ok := d.Name(":1"); ok {
		t.Fatalf("nil dictionary resolved a name")
	}
	if d.Len() != 0 || d.Refs() != nil || d.Search("x") != nil {
		t.Fatalf("nil dictionary should be empty")
	}
}

func Test_Dictionary_Search_Ranks_Closest_First(t *testing.T) {
	got := Default().Search("List.mem")
	if len(got) == 0 || got[0].Ref != ":1124" {
		t.Fatalf("expected :1124 first, got %+v", got)
	}
	byRef := Default().Search(":1338")
	if len(byRef) == 0 || byRef[0].Name != "Garaxy.run" {
		t.Fatalf("expected Garaxy.run first, got %+v", byRef)
	}
	if res := Default().Search("zzzzqqq"); len(res) != 0 {
		t.Fatalf("expected no match, got %+v", res)
	}
}

func Test_Dictionary_Type_String(t *testing.T) {
	cases := []struct {
		typ  Type
		want string
	}{
		{Func(2, KindBool), "func/2 -> bool"},
		{Type{Kind: KindList}, "list"},
		{Type{}, "unknown"},
	}
	for _, tc := range cases {
		if got := tc.typ.String(); got != tc.want {
			t.Fatalf("want %q, got %q", tc.want, got)
		}
	}
}
