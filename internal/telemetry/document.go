package telemetry

import (
	"encoding/json"
	"fmt"
	"math"
)

// FrameFromJSON decodes raw JSON bytes into a Frame. Syntax failures wrap
// ErrSchemaParse; shape failures wrap ErrSchemaStructural. Parsing and shape
// validation are deliberately two separate phases so callers can tell a
// malformed file apart from a well-formed file with the wrong layout.
func FrameFromJSON(data []byte) (Frame, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrSchemaParse, err)
	}
	root, ok := doc.(map[string]any)
	if !ok {
		return Frame{}, fmt.Errorf("%w: root is not an object", ErrSchemaStructural)
	}
	return FrameFromDocument(root)
}

// FrameFromDocument builds a Frame from an already-decoded JSON document and
// validates its shape: the root must declare a title and a non-empty ordered
// list of groups, each group a widget kind and a non-empty list of datasets,
// and each dataset a title and a non-negative integer index.
func FrameFromDocument(root map[string]any) (Frame, error) {
	var f Frame

	title, ok := stringField(root, "title")
	if !ok || title == "" {
		return Frame{}, fmt.Errorf("%w: missing frame title", ErrSchemaStructural)
	}
	f.Title = title

	if s, ok := stringField(root, "frameStart"); ok {
		f.FrameStart = []byte(s)
	}
	if s, ok := stringField(root, "frameEnd"); ok {
		f.FrameEnd = []byte(s)
	}

	rawGroups, ok := root["groups"].([]any)
	if !ok || len(rawGroups) == 0 {
		return Frame{}, fmt.Errorf("%w: frame declares no groups", ErrSchemaStructural)
	}

	f.Groups = make([]Group, 0, len(rawGroups))
	for gi, rg := range rawGroups {
		obj, ok := rg.(map[string]any)
		if !ok {
			return Frame{}, fmt.Errorf("%w: group %d is not an object", ErrSchemaStructural, gi)
		}
		g, err := groupFromDocument(obj, gi)
		if err != nil {
			return Frame{}, err
		}
		f.Groups = append(f.Groups, g)
	}

	return f, nil
}

func groupFromDocument(obj map[string]any, id int) (Group, error) {
	g := Group{ID: id}

	title, ok := stringField(obj, "title")
	if !ok || title == "" {
		return Group{}, fmt.Errorf("%w: group %d has no title", ErrSchemaStructural, id)
	}
	g.Title = title

	widget, ok := stringField(obj, "widget")
	if !ok {
		return Group{}, fmt.Errorf("%w: group %q declares no widget kind", ErrSchemaStructural, title)
	}
	g.Widget = widget

	rawSets, ok := obj["datasets"].([]any)
	if !ok || len(rawSets) == 0 {
		return Group{}, fmt.Errorf("%w: group %q declares no datasets", ErrSchemaStructural, title)
	}

	g.Datasets = make([]Dataset, 0, len(rawSets))
	for di, rd := range rawSets {
		dobj, ok := rd.(map[string]any)
		if !ok {
			return Group{}, fmt.Errorf("%w: group %q dataset %d is not an object", ErrSchemaStructural, title, di)
		}
		d, err := datasetFromDocument(dobj, id)
		if err != nil {
			return Group{}, fmt.Errorf("group %q: %w", title, err)
		}
		g.Datasets = append(g.Datasets, d)
	}

	return g, nil
}

func datasetFromDocument(obj map[string]any, groupID int) (Dataset, error) {
	d := Dataset{GroupID: groupID}

	title, ok := stringField(obj, "title")
	if !ok || title == "" {
		return Dataset{}, fmt.Errorf("%w: dataset has no title", ErrSchemaStructural)
	}
	d.Title = title

	idx, err := intField(obj, "index")
	if err != nil {
		return Dataset{}, fmt.Errorf("%w: dataset %q: %v", ErrSchemaStructural, title, err)
	}
	d.Index = idx

	if s, ok := stringField(obj, "value"); ok {
		d.Value = s
	}
	if s, ok := stringField(obj, "widget"); ok {
		d.Widget = s
	}
	if b, ok := obj["graph"].(bool); ok {
		d.Graph = b
	}
	if b, ok := obj["displayInOverview"].(bool); ok {
		d.DisplayInOverview = b
	}

	return d, nil
}

func stringField(obj map[string]any, key string) (string, bool) {
	v, ok := obj[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// intField reads a JSON number that must be a non-negative integer. A zero
// index marks a dataset as unassigned; every used index is 1-based.
func intField(obj map[string]any, key string) (int, error) {
	v, ok := obj[key]
	if !ok {
		return 0, fmt.Errorf("missing %q field", key)
	}
	n, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("%q is not a number", key)
	}
	if n != math.Trunc(n) {
		return 0, fmt.Errorf("%q is not an integer", key)
	}
	if n < 0 {
		return 0, fmt.Errorf("%q is negative", key)
	}
	return int(n), nil
}
