package tray

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// iconSVG is a viewfinder: four crop corners around a dashed selection.
const iconSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 16 16" width="16" height="16">
  <path d="M1 5V1h4M11 1h4v4M15 11v4h-4M5 15H1v-4" fill="none" stroke="#000000" stroke-width="1.5"/>
  <rect x="4.5" y="5.5" width="7" height="5" fill="none" stroke="#000000" stroke-width="1" stroke-dasharray="1.5,1"/>
</svg>`

// Icon returns the menu-bar icon, recoloured to match the current theme.
func Icon() fyne.Resource {
	return theme.NewThemedResource(fyne.NewStaticResource("clarity.svg", []byte(iconSVG)))
}
