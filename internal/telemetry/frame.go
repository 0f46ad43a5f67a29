package telemetry

// Dataset is a single named, indexed scalar value within a group.
// Index is the 1-based position in the flat decoded-field list; zero means
// the dataset is not fed by the field list. Everything except Value is fixed
// once the owning schema is loaded.
type Dataset struct {
	GroupID           int    `json:"groupId"`
	Index             int    `json:"index"`
	Title             string `json:"title"`
	Value             string `json:"value"`
	Widget            string `json:"widget"`
	Graph             bool   `json:"graph"`
	DisplayInOverview bool   `json:"displayInOverview"`
}

// Group is a named, widget-tagged collection of datasets. Dataset order is
// display-significant.
type Group struct {
	ID       int       `json:"id"`
	Title    string    `json:"title"`
	Widget   string    `json:"widget"`
	Datasets []Dataset `json:"datasets"`
}

// DatasetCount returns the number of datasets in the group.
func (g *Group) DatasetCount() int { return len(g.Datasets) }

// Frame is one structured telemetry snapshot: a title plus ordered groups.
// FrameStart and FrameEnd are the delimiter byte sequences declared by the
// schema the frame was built from.
type Frame struct {
	Title      string  `json:"title"`
	Groups     []Group `json:"groups"`
	FrameStart []byte  `json:"-"`
	FrameEnd   []byte  `json:"-"`
}

// Clear resets the frame to its empty state.
func (f *Frame) Clear() {
	f.Title = ""
	f.Groups = nil
	f.FrameStart = nil
	f.FrameEnd = nil
}

// IsValid reports whether the frame has a title and at least one group.
func (f *Frame) IsValid() bool {
	return f.Title != "" && len(f.Groups) > 0
}

// GroupCount returns the number of groups in the frame.
func (f *Frame) GroupCount() int { return len(f.Groups) }

// DatasetCount returns the total number of datasets across all groups.
func (f *Frame) DatasetCount() int {
	n := 0
	for i := range f.Groups {
		n += len(f.Groups[i].Datasets)
	}
	return n
}

// ApplyFields overwrites dataset values from the flat decoded-field list, in
// group then dataset order. A dataset whose index falls inside the field list
// takes fields[index-1]; any other dataset keeps its previous value. The pass
// never adds, removes, or reorders datasets.
func (f *Frame) ApplyFields(fields []string) {
	for g := range f.Groups {
		datasets := f.Groups[g].Datasets
		for d := range datasets {
			idx := datasets[d].Index
			if idx > 0 && idx <= len(fields) {
				datasets[d].Value = fields[idx-1]
			}
		}
	}
}

// Clone returns a deep copy of the frame. Used to publish immutable
// snapshots while the template keeps being mutated in place.
func (f *Frame) Clone() Frame {
	out := Frame{
		Title:      f.Title,
		FrameStart: append([]byte(nil), f.FrameStart...),
		FrameEnd:   append([]byte(nil), f.FrameEnd...),
	}
	if f.Groups != nil {
		out.Groups = make([]Group, len(f.Groups))
		for i := range f.Groups {
			g := f.Groups[i]
			g.Datasets = append([]Dataset(nil), f.Groups[i].Datasets...)
			out.Groups[i] = g
		}
	}
	return out
}
