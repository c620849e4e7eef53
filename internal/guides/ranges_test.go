package guides

import (
	"reflect"
	"testing"
)

func TestClassify(t *testing.T) {
	const line = "  \t  abcdef"
	opts := Options{TabSize: 2, FirstIndent: true}
	guides, _ := Extract(line, opts.TabSize, nil)

	idx, ok := ResolveActive(AtCursor(3, opts), line, guides)
	if !ok {
		t.Fatal("expected an active guide")
	}
	r := Classify(opts, guides, &guides[idx])

	if got := Positions(r.Stack); !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("stack = %v, want [0]", got)
	}
	if r.Active == nil || r.Active.Position != 2 {
		t.Errorf("active = %v, want position 2", r.Active)
	}
	if got := Positions(r.Normal); !reflect.DeepEqual(got, []int{3}) {
		t.Errorf("normal = %v, want [3]", got)
	}
	want := []Band{
		{From: 0, To: 2, Level: 0},
		{From: 2, To: 3, Level: 1},
		{From: 3, To: 5, Level: 2},
	}
	if !reflect.DeepEqual(r.Backgrounds, want) {
		t.Errorf("backgrounds = %v, want %v", r.Backgrounds, want)
	}
}

func TestClassifyVisibility(t *testing.T) {
	guides, _ := Extract("\t\tx", 4, nil)

	tests := []struct {
		name   string
		opts   Options
		normal []int
	}{
		{"defaults", Options{}, []int{1}},
		{"first indent", Options{FirstIndent: true}, []int{0, 1}},
		{"extra indent", Options{ExtraIndent: true}, []int{1, 2}},
		{"both", Options{FirstIndent: true, ExtraIndent: true}, []int{0, 1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Classify(tt.opts, guides, nil)
			if got := Positions(r.Normal); !reflect.DeepEqual(got, tt.normal) {
				t.Errorf("normal = %v, want %v", got, tt.normal)
			}
			if len(r.Stack) != 0 {
				t.Errorf("stack = %v, want empty", r.Stack)
			}
			if len(r.Backgrounds) != 2 {
				t.Errorf("got %d backgrounds, want 2", len(r.Backgrounds))
			}
		})
	}
}

func TestClassifyNoDuplicates(t *testing.T) {
	guides, _ := Extract("            x", 4, nil)
	opts := Options{FirstIndent: true, ExtraIndent: true}
	active := guides[2]
	r := Classify(opts, guides, &active)

	seen := map[int]bool{active.Position: true}
	for _, g := range append(append([]Guide{}, r.Stack...), r.Normal...) {
		if seen[g.Position] {
			t.Errorf("position %d classified twice", g.Position)
		}
		seen[g.Position] = true
	}
	if len(seen) != len(guides) {
		t.Errorf("classified %d positions, want %d", len(seen), len(guides))
	}
}

func TestClassifyEmpty(t *testing.T) {
	r := Classify(DefaultOptions(), []Guide{}, nil)
	if r.Stack == nil || r.Normal == nil {
		t.Error("stack and normal should be empty, not nil")
	}
	if r.Active != nil || len(r.Backgrounds) != 0 {
		t.Errorf("unexpected ranges: %+v", r)
	}
}
