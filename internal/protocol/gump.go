package protocol

// GUMP (server -> operator): a paged tile-button picker.
type GumpMsg struct {
	Type            string     `json:"type"`
	ProtocolVersion string     `json:"protocol_version"`
	Tick            uint64     `json:"tick"`
	GumpID          string     `json:"gump_id"`
	Header          string     `json:"header"`
	Width           int        `json:"width"`
	Height          int        `json:"height"`
	Cancel          GumpButton `json:"cancel"`
	Pages           []GumpPage `json:"pages"`
}

type GumpPage struct {
	Index int        `json:"index"`
	Tiles []GumpTile `json:"tiles"`
	Back  *GumpNav   `json:"back,omitempty"`
	Next  *GumpNav   `json:"next,omitempty"`
}

type GumpTile struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	ButtonID int    `json:"button_id"`
	ItemID   int    `json:"item_id"`
	Hue      int    `json:"hue"`
	Label    string `json:"label"`
	Tooltip  int    `json:"tooltip"`
}

type GumpNav struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	ToPage int    `json:"to_page"`
	Label  string `json:"label"`
}

type GumpButton struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	ButtonID int    `json:"button_id"`
	Label    string `json:"label"`
}
