package keyword

// ApplyAutoTop20 adjusts the fetchTop20 flag from the keyword's just-computed
// position when the domain has auto-management enabled. Positions in (0,7]
// clear the flag, position 0 or above 10 set it, and (7,10] is a deliberate
// dead zone to avoid oscillation at the boundary. The returned settings are a
// copy; changed is false when no mutation was needed, and a settings blob
// left empty by the change comes back as nil so the store can clear it.
func ApplyAutoTop20(enabled bool, settings *CustomSettings, position int) (*CustomSettings, bool) {
	if !enabled {
		return settings, false
	}

	var snapshot CustomSettings
	if settings != nil {
		snapshot = *settings
	}

	shouldDisable := position > 0 && position <= 7 && snapshot.FetchTop20
	shouldEnable := (position == 0 || position > 10) && !snapshot.FetchTop20

	switch {
	case shouldDisable:
		snapshot.FetchTop20 = false
	case shouldEnable:
		snapshot.FetchTop20 = true
	default:
		return settings, false
	}

	if !snapshot.FetchTop20 && snapshot.SERPPages == 0 {
		return nil, true
	}
	return &snapshot, true
}
