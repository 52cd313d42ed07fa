package category

import (
	"fmt"
	"strings"
)

// Icon identifies the glyph drawn next to a category.
type Icon int

const (
	IconFolder Icon = iota
	IconCar
	IconHome
	IconSmartphone
	IconShirt
	IconSofa
	IconSparkles
	IconGamepad
	IconBaby
	IconPaw
	IconUtensils
	IconWrench
	IconGift
	IconPill

	iconCount
)

// iconRenderers maps each Icon to the renderer key the client draws.
// The array length is tied to iconCount, so adding an Icon without a
// renderer leaves an empty slot that TestIconRenderersComplete catches.
var iconRenderers = [iconCount]string{
	IconFolder:     "folder",
	IconCar:        "car",
	IconHome:       "home",
	IconSmartphone: "smartphone",
	IconShirt:      "shirt",
	IconSofa:       "sofa",
	IconSparkles:   "sparkles",
	IconGamepad:    "gamepad-2",
	IconBaby:       "baby",
	IconPaw:        "paw-print",
	IconUtensils:   "utensils",
	IconWrench:     "wrench",
	IconGift:       "gift",
	IconPill:       "pill",
}

var iconsByName = func() map[string]Icon {
	m := make(map[string]Icon, len(iconRenderers))
	for i, name := range iconRenderers {
		m[name] = Icon(i)
	}
	return m
}()

// ParseIcon resolves a stored icon name. Unknown names yield IconFolder and false.
func ParseIcon(name string) (Icon, bool) {
	icon, ok := iconsByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return IconFolder, false
	}
	return icon, true
}

// Renderer returns the renderer key; out-of-range values render as a folder.
func (i Icon) Renderer() string {
	if i < 0 || i >= iconCount {
		return iconRenderers[IconFolder]
	}
	return iconRenderers[i]
}

func (i Icon) String() string {
	return i.Renderer()
}

func (i Icon) MarshalText() ([]byte, error) {
	return []byte(i.Renderer()), nil
}

func (i *Icon) UnmarshalText(b []byte) error {
	icon, ok := ParseIcon(string(b))
	if !ok {
		return fmt.Errorf("unknown icon %q", string(b))
	}
	*i = icon
	return nil
}
