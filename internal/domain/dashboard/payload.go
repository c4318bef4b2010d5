package dashboard

import (
	"github.com/carehub/portal/internal/domain/identity"
)

type Mode string

const (
	ModePatient  Mode = "patient"
	ModeDoctor   Mode = "doctor"
	ModeAdmin    Mode = "admin"
	ModeRedirect Mode = "redirect"
)

// LoginPath is where a redirect payload sends the client.
const LoginPath = "/login"

type Trend struct {
	Direction string `json:"direction"`
}

type Stat struct {
	Label string `json:"label"`
	Value int    `json:"value"`
	Unit  string `json:"unit,omitempty"`
	Trend *Trend `json:"trend,omitempty"`
}

// List is one dashboard panel. Total counts every matching entry even when
// Items holds only the head of the list.
type List struct {
	Title        string      `json:"title"`
	Items        interface{} `json:"items"`
	EmptyMessage string      `json:"empty_message"`
	Total        int         `json:"total"`
}

type Payload struct {
	Mode       Mode           `json:"mode"`
	RedirectTo string         `json:"redirect_to,omitempty"`
	Viewer     *identity.User `json:"viewer,omitempty"`
	Stats      []Stat         `json:"stats"`
	Lists      []List         `json:"lists"`
}

func redirect() Payload {
	return Payload{Mode: ModeRedirect, RedirectTo: LoginPath, Stats: []Stat{}, Lists: []List{}}
}
