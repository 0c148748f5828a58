package editorcmd

// FeatureGates exposes runtime toggles read by the editor handlers. Hosts
// supply closures reading from notes.Config so handlers stay decoupled from
// configuration.
type FeatureGates struct {
	// ReadOnly rejects line edits when it returns true. Open, close and save
	// keep working.
	ReadOnly func() bool
}

func (g FeatureGates) readOnly() bool {
	if g.ReadOnly == nil {
		return false
	}
	return g.ReadOnly()
}
