package param

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	p := New(1.6, 1, 3)
	if !p.Optimize {
		t.Error("expected New parameter to be searchable")
	}
	if p.Value != 1.6 || p.Min != 1 || p.Max != 3 {
		t.Errorf("expected 1.6 [1,3], got %f [%f,%f]", p.Value, p.Min, p.Max)
	}
}

func TestFixed(t *testing.T) {
	p := Fixed(9.81, 0, 20)
	if p.Optimize {
		t.Error("expected Fixed parameter to be excluded from search")
	}
}

func TestRegistryOrder(t *testing.T) {
	r := NewRegistry()
	r.Add("kt", New(1.6, 1, 3))
	r.Add("R", New(2.0, 1, 3.5))
	r.Add("armature", New(0.005, 0.001, 0.05))

	names := r.Names()
	want := []string{"kt", "R", "armature"}
	if len(names) != len(want) {
		t.Fatalf("expected %d names, got %d", len(want), len(names))
	}
	for i, name := range want {
		if names[i] != name {
			t.Errorf("position %d: expected %s, got %s", i, name, names[i])
		}
	}
}

func TestRegistryReAddKeepsPosition(t *testing.T) {
	r := NewRegistry()
	r.Add("a", New(1, 0, 2))
	r.Add("b", New(2, 0, 4))
	r.Add("a", New(3, 0, 6))

	names := r.Names()
	if names[0] != "a" || names[1] != "b" {
		t.Errorf("expected order [a b], got %v", names)
	}
	p, _ := r.Get("a")
	if p.Value != 3 {
		t.Errorf("expected replaced value 3, got %f", p.Value)
	}
}

func TestRegistryValuesFiltersFixed(t *testing.T) {
	r := NewRegistry()
	r.Add("kt", New(1.6, 1, 3))
	r.Add("gravity", Fixed(9.81, 0, 20))
	r.Add("R", New(2.0, 1, 3.5))

	values := r.Values()
	if len(values) != 2 {
		t.Fatalf("expected 2 searchable values, got %d", len(values))
	}
	if _, ok := values["gravity"]; ok {
		t.Error("fixed parameter leaked into Values")
	}

	opt := r.Optimized()
	if len(opt) != 2 || opt[0] != "kt" || opt[1] != "R" {
		t.Errorf("expected optimized order [kt R], got %v", opt)
	}
}

func TestRegistryLoad(t *testing.T) {
	r := NewRegistry()
	r.Add("kt", New(1.6, 1, 3))
	r.Add("R", New(2.0, 1, 3.5))

	r.Load(map[string]float64{
		"kt":      2.5,
		"unknown": 99,
	})

	kt, _ := r.Get("kt")
	if kt.Value != 2.5 {
		t.Errorf("expected kt 2.5, got %f", kt.Value)
	}
	res, _ := r.Get("R")
	if res.Value != 2.0 {
		t.Errorf("expected R untouched at 2.0, got %f", res.Value)
	}
}

func TestSaveLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.json")
	values := map[string]float64{"kt": 1.9, "R": 2.2}

	if err := SaveFile(path, "m2", values); err != nil {
		t.Fatalf("save: %v", err)
	}

	model, loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if model != "m2" {
		t.Errorf("expected model m2, got %s", model)
	}
	if loaded["kt"] != 1.9 || loaded["R"] != 2.2 {
		t.Errorf("expected values round-tripped, got %v", loaded)
	}
	if _, ok := loaded["model"]; ok {
		t.Error("model key leaked into numeric values")
	}
}

func TestLoadFileIgnoresForeignKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.json")
	data := `{"model":"m1","friction_base":0.07,"note":"hand edited","tags":[1,2]}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	model, values, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if model != "m1" {
		t.Errorf("expected model m1, got %s", model)
	}
	if len(values) != 1 || values["friction_base"] != 0.07 {
		t.Errorf("expected single numeric value, got %v", values)
	}
}
