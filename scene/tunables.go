package scene

// Tunable is one live-editable setting with its allowed range.
type Tunable struct {
	Name     string
	Min, Max float32
	Format   string

	field func(*Settings) *float32
}

// Get returns the current value in s.
func (t Tunable) Get(s *Settings) float32 {
	return *t.field(s)
}

// Set stores v in s clamped to the range.
func (t Tunable) Set(s *Settings, v float32) {
	if v < t.Min {
		v = t.Min
	}
	if v > t.Max {
		v = t.Max
	}
	*t.field(s) = v
}

// Nudge moves the value by steps hundredths of the range.
func (t Tunable) Nudge(s *Settings, steps int) {
	t.Set(s, t.Get(s)+float32(steps)*(t.Max-t.Min)/100)
}

// Tunables lists the settings exposed by the control panels, in display order.
// Start box values take effect on the next reset.
var Tunables = []Tunable{
	{Name: "Container X", Min: -10, Max: 10, Format: "%.2f", field: func(s *Settings) *float32 { return &s.ContainerPosition[0] }},
	{Name: "Container Y", Min: -10, Max: 10, Format: "%.2f", field: func(s *Settings) *float32 { return &s.ContainerPosition[1] }},
	{Name: "Rotation", Min: 0, Max: 360, Format: "%.0f", field: func(s *Settings) *float32 { return &s.ContainerRotation }},
	{Name: "Width", Min: 0, Max: 60, Format: "%.1f", field: func(s *Settings) *float32 { return &s.ContainerScale[0] }},
	{Name: "Height", Min: 0, Max: 60, Format: "%.1f", field: func(s *Settings) *float32 { return &s.ContainerScale[1] }},
	{Name: "Box X", Min: -20, Max: 20, Format: "%.1f", field: func(s *Settings) *float32 { return &s.BoxPosition[0] }},
	{Name: "Box Y", Min: -20, Max: 20, Format: "%.1f", field: func(s *Settings) *float32 { return &s.BoxPosition[1] }},
	{Name: "Box Width", Min: 0, Max: 40, Format: "%.1f", field: func(s *Settings) *float32 { return &s.BoxScale[0] }},
	{Name: "Box Height", Min: 0, Max: 40, Format: "%.1f", field: func(s *Settings) *float32 { return &s.BoxScale[1] }},
	{Name: "Molecule Scale", Min: 0.001, Max: 1, Format: "%.3f", field: func(s *Settings) *float32 { return &s.MoleculeScale }},
	{Name: "Influence Radius", Min: 0.1, Max: 2, Format: "%.2f", field: func(s *Settings) *float32 { return &s.InfluenceRadius }},
	{Name: "Viscosity", Min: 0, Max: 10, Format: "%.2f", field: func(s *Settings) *float32 { return &s.Viscosity }},
	{Name: "Rest Density", Min: 0, Max: 100, Format: "%.1f", field: func(s *Settings) *float32 { return &s.RestDensity }},
}
