package telemetry

import (
	"errors"
	"testing"
)

const validSchema = `{
	"title": "Weather Station",
	"frameStart": "/*",
	"frameEnd": "*/",
	"groups": [
		{
			"title": "Environment",
			"widget": "datagrid",
			"datasets": [
				{"title": "Temperature", "index": 1, "widget": "gauge", "graph": true},
				{"title": "Humidity", "index": 2}
			]
		},
		{
			"title": "Power",
			"widget": "multiplot",
			"datasets": [
				{"title": "Voltage", "index": 3, "value": "0.0"}
			]
		}
	]
}`

func TestFrameFromJSON(t *testing.T) {
	f, err := FrameFromJSON([]byte(validSchema))
	if err != nil {
		t.Fatalf("FrameFromJSON: %v", err)
	}

	if f.Title != "Weather Station" {
		t.Errorf("title = %q", f.Title)
	}
	if string(f.FrameStart) != "/*" || string(f.FrameEnd) != "*/" {
		t.Errorf("delimiters = %q %q", f.FrameStart, f.FrameEnd)
	}
	if f.GroupCount() != 2 {
		t.Fatalf("group count = %d, want 2", f.GroupCount())
	}
	if f.DatasetCount() != 3 {
		t.Fatalf("dataset count = %d, want 3", f.DatasetCount())
	}

	env := f.Groups[0]
	if env.ID != 0 || env.Widget != "datagrid" {
		t.Errorf("group 0 = id %d widget %q", env.ID, env.Widget)
	}
	temp := env.Datasets[0]
	if temp.Index != 1 || temp.GroupID != 0 || !temp.Graph || temp.Widget != "gauge" {
		t.Errorf("temperature dataset = %+v", temp)
	}
	if f.Groups[1].Datasets[0].Value != "0.0" {
		t.Errorf("initial value = %q", f.Groups[1].Datasets[0].Value)
	}
}

func TestFrameFromJSONSyntaxError(t *testing.T) {
	_, err := FrameFromJSON([]byte(`{"title": "x",`))
	if !errors.Is(err, ErrSchemaParse) {
		t.Fatalf("err = %v, want ErrSchemaParse", err)
	}
}

func TestFrameFromJSONStructuralErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"root not object", `[1, 2, 3]`},
		{"missing title", `{"groups": [{"title": "g", "widget": "w", "datasets": [{"title": "d", "index": 1}]}]}`},
		{"empty groups", `{"title": "x", "groups": []}`},
		{"missing groups", `{"title": "x"}`},
		{"group without widget", `{"title": "x", "groups": [{"title": "g", "datasets": [{"title": "d", "index": 1}]}]}`},
		{"group without datasets", `{"title": "x", "groups": [{"title": "g", "widget": "w", "datasets": []}]}`},
		{"dataset without title", `{"title": "x", "groups": [{"title": "g", "widget": "w", "datasets": [{"index": 1}]}]}`},
		{"dataset without index", `{"title": "x", "groups": [{"title": "g", "widget": "w", "datasets": [{"title": "d"}]}]}`},
		{"non-integer index", `{"title": "x", "groups": [{"title": "g", "widget": "w", "datasets": [{"title": "d", "index": 1.5}]}]}`},
		{"string index", `{"title": "x", "groups": [{"title": "g", "widget": "w", "datasets": [{"title": "d", "index": "1"}]}]}`},
		{"negative index", `{"title": "x", "groups": [{"title": "g", "widget": "w", "datasets": [{"title": "d", "index": -1}]}]}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FrameFromJSON([]byte(tc.doc))
			if !errors.Is(err, ErrSchemaStructural) {
				t.Fatalf("err = %v, want ErrSchemaStructural", err)
			}
		})
	}
}

func TestFrameFromJSONZeroIndexAllowed(t *testing.T) {
	doc := `{"title": "x", "groups": [{"title": "g", "widget": "w", "datasets": [{"title": "d", "index": 0}]}]}`
	f, err := FrameFromJSON([]byte(doc))
	if err != nil {
		t.Fatalf("FrameFromJSON: %v", err)
	}
	if f.Groups[0].Datasets[0].Index != 0 {
		t.Errorf("index = %d, want 0", f.Groups[0].Datasets[0].Index)
	}
}
