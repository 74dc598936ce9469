// Package charts builds Plotly figure specifications from dashboard reports.
// Figures are plain data; the page hands them to Plotly.js unchanged.
package charts

type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

type Trace struct {
	Type          string    `json:"type"`
	Name          string    `json:"name,omitempty"`
	X             any       `json:"x,omitempty"`
	Y             any       `json:"y,omitempty"`
	Lat           []float64 `json:"lat,omitempty"`
	Lon           []float64 `json:"lon,omitempty"`
	Mode          string    `json:"mode,omitempty"`
	Orientation   string    `json:"orientation,omitempty"`
	Text          []string  `json:"text,omitempty"`
	TextPosition  string    `json:"textposition,omitempty"`
	HoverText     []string  `json:"hovertext,omitempty"`
	HoverTemplate string    `json:"hovertemplate,omitempty"`
	Marker        *Marker   `json:"marker,omitempty"`
	Line          *Line     `json:"line,omitempty"`
}

type Marker struct {
	Color    string    `json:"color,omitempty"`
	Size     []float64 `json:"size,omitempty"`
	SizeMode string    `json:"sizemode,omitempty"`
	SizeRef  float64   `json:"sizeref,omitempty"`
}

type Line struct {
	Color string `json:"color,omitempty"`
	Dash  string `json:"dash,omitempty"`
}

type Layout struct {
	Title      Text  `json:"title"`
	ShowLegend *bool `json:"showlegend,omitempty"`
	XAxis      *Axis `json:"xaxis,omitempty"`
	YAxis      *Axis `json:"yaxis,omitempty"`
	Geo        *Geo  `json:"geo,omitempty"`
}

type Text struct {
	Text string `json:"text"`
}

type Axis struct {
	Title         *Text     `json:"title,omitempty"`
	Range         []float64 `json:"range,omitempty"`
	AutoRange     string    `json:"autorange,omitempty"`
	CategoryOrder string    `json:"categoryorder,omitempty"`
	CategoryArray []string  `json:"categoryarray,omitempty"`
}

type Geo struct {
	Scope         string `json:"scope"`
	ShowCountries bool   `json:"showcountries"`
	ShowLand      bool   `json:"showland"`
	LandColor     string `json:"landcolor,omitempty"`
}

func boolPtr(v bool) *bool {
	return &v
}
