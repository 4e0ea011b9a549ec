package handlers

// Analytics holds client instrumentation configuration surfaced to templates.
// An empty measurement id disables the tag entirely.
type Analytics struct {
	GA4MeasurementID string // e.g. G-XXXXXXXXXX
	Debug            bool
}

// Enabled reports whether the layout should emit the analytics tag. Previews
// are never tracked.
func (a Analytics) Enabled(preview bool) bool {
	return a.GA4MeasurementID != "" && !preview
}
