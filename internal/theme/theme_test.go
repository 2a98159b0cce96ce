package theme

import "testing"

func TestRefreshThreshold(t *testing.T) {
	m := NewManager(ModeAuto, 255, nil)
	tests := []struct {
		brightness int
		want       string
	}{
		{0, Dark},
		{127, Dark},
		{128, Light},
		{255, Light},
	}
	for _, tc := range tests {
		if got := m.Refresh(tc.brightness).Name; got != tc.want {
			t.Errorf("Refresh(%d) = %s, want %s", tc.brightness, got, tc.want)
		}
	}
}

func TestPalettesDifferOnlyInLabel(t *testing.T) {
	light, _ := Named(Light)
	dark, _ := Named(Dark)
	if light.LightSquare != dark.LightSquare || light.DarkSquare != dark.DarkSquare {
		t.Error("palettes should share square colors")
	}
	if light.LastMoveHighlight != dark.LastMoveHighlight || light.LegalTargetHint != dark.LegalTargetHint {
		t.Error("palettes should share highlight colors")
	}
	if light.Label == dark.Label {
		t.Error("palettes should differ in label color")
	}
}

func TestHostPaletteChangeNotifies(t *testing.T) {
	m := NewManager(ModeAuto, 200, nil)
	if m.Current().Name != Light {
		t.Fatalf("initial theme = %s", m.Current().Name)
	}

	var seen []string
	m.OnHostPaletteChange(func(th Theme) { seen = append(seen, th.Name) })
	m.OnHostPaletteChange(func(th Theme) { seen = append(seen, "second:"+th.Name) })

	m.HostPaletteChanged(40)
	if m.Current().Name != Dark {
		t.Errorf("Current() = %s after dark signal", m.Current().Name)
	}
	if len(seen) != 2 || seen[0] != Dark || seen[1] != "second:"+Dark {
		t.Errorf("handlers saw %v", seen)
	}
}

func TestForcedMode(t *testing.T) {
	m := NewManager(ModeDark, 255, nil)
	if m.Current().Name != Dark {
		t.Errorf("forced dark gave %s", m.Current().Name)
	}
	if ParseMode("sepia") != ModeAuto {
		t.Error("unknown mode should be auto")
	}
}
