package core

// Color is a cell foreground or background colour on the course screen.
// Values below ColorRGB index a fixed palette; ColorRGB marks a cell whose
// true colour is carried in Cell.RGB.
type Color uint8

// Palette used by the play view and heat map.
const (
	ColorDefault Color = iota
	ColorGreen         // fairway
	ColorWhite         // ball, made putts
	ColorBlack         // cup
	ColorBrown         // walls
	ColorGray          // aim cursor, HUD
	ColorYellow        // messages
	ColorRGB           // true colour, see Cell.RGB
)
