package models

type Branding struct {
	RestaurantName  string  `json:"restaurant_name"`
	LogoURL         *string `json:"logo_url"`
	PrimaryColor    string  `json:"primary_color"`
	SecondaryColor  string  `json:"secondary_color"`
	AccentColor     string  `json:"accent_color"`
	TextColor       string  `json:"text_color"`
	BackgroundColor string  `json:"background_color"`
	HeadingFont     string  `json:"heading_font"`
	BodyFont        string  `json:"body_font"`
	ButtonStyle     string  `json:"button_style"`
	BorderRadius    int     `json:"border_radius"`
	LoaderType      string  `json:"loader_type"`
	LoaderColor     string  `json:"loader_color"`
}

// DefaultBranding is used when the backend has no branding configured or
// cannot be reached.
func DefaultBranding() Branding {
	return Branding{
		RestaurantName:  "Hotel Lumiere",
		PrimaryColor:    "#177DAA",
		SecondaryColor:  "#62B5E5",
		AccentColor:     "#62B5E5",
		TextColor:       "#06293F",
		BackgroundColor: "#F9F8F6",
		HeadingFont:     "Big Shoulders Display",
		BodyFont:        "Montserrat",
		ButtonStyle:     "rounded",
		BorderRadius:    8,
		LoaderType:      "spinner",
		LoaderColor:     "#177DAA",
	}
}
