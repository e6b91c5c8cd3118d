package param

import (
	"encoding/json"
	"os"
)

// modelKey names the variant inside a parameter file. It shares the flat
// JSON namespace with parameter names, so no parameter may be called "model".
const modelKey = "model"

// SaveFile writes values as a flat JSON object with the variant name under
// the "model" key.
func SaveFile(path, model string, values map[string]float64) error {
	doc := make(map[string]any, len(values)+1)
	for name, value := range values {
		doc[name] = value
	}
	doc[modelKey] = model

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadFile reads a parameter file and returns the variant name and the
// numeric entries. Non-numeric keys other than "model" are ignored.
func LoadFile(path string) (string, map[string]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", nil, err
	}

	model := ""
	values := make(map[string]float64)
	for name, raw := range doc {
		switch v := raw.(type) {
		case float64:
			values[name] = v
		case string:
			if name == modelKey {
				model = v
			}
		}
	}
	return model, values, nil
}
