package tui

import "testing"

func TestTabAtXMatchesTabWidths(t *testing.T) {
	const numTabs = 4
	for active := 0; active < numTabs; active++ {
		a := App{activeTab: active}
		pos := 0

		for i := 0; i < numTabs; i++ {
			w := tabWidthForTest(i, active)
			x := pos + w/2 // midpoint inside this tab
			if got := a.tabAtX(x); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, x, got, i)
			}
			pos += w
			if i < numTabs-1 {
				pos++ // separator
			}
		}
	}
}

func TestTabAtXOutside(t *testing.T) {
	a := App{}
	if got := a.tabAtX(500); got != -1 {
		t.Errorf("tabAtX(500) = %d, want -1", got)
	}
}

func tabWidthForTest(tabIdx, activeIdx int) int {
	nameWidths := []int{
		len("Overview"),
		len("Projects"),
		len("Chat"),
		len("Settings"),
	}

	w := nameWidths[tabIdx] + 2 // horizontal padding in tab renderer
	if tabIdx != activeIdx {
		w += 2 // "[" and "]" around the shortcut
		if tabIdx == 3 {
			w++ // inactive Settings appends "x"
		}
	}
	return w
}
