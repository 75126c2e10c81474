package docstore

import (
	"encoding/json"
	"fmt"
)

type PropertyType string

const (
	TypeTitle       PropertyType = "title"
	TypeRichText    PropertyType = "rich_text"
	TypeSelect      PropertyType = "select"
	TypeStatus      PropertyType = "status"
	TypeMultiSelect PropertyType = "multi_select"
	TypeDate        PropertyType = "date"
	TypeNumber      PropertyType = "number"
	TypeCheckbox    PropertyType = "checkbox"
	TypeFiles       PropertyType = "files"
)

type TextContent struct {
	Content string `json:"content"`
}

type RichText struct {
	Type      string       `json:"type,omitempty"`
	Text      *TextContent `json:"text,omitempty"`
	PlainText string       `json:"plain_text,omitempty"`
}

// String returns the rendered text of a segment, whichever side filled it.
func (r RichText) String() string {
	if r.PlainText != "" {
		return r.PlainText
	}
	if r.Text != nil {
		return r.Text.Content
	}
	return ""
}

type Option struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

type DateRange struct {
	Start string  `json:"start"`
	End   *string `json:"end,omitempty"`
}

type FileLink struct {
	URL string `json:"url"`
}

// File is an entry of a files property. Files uploaded to the store itself
// come back under File with an expiring URL; links we write are External.
type File struct {
	Type     string    `json:"type,omitempty"`
	Name     string    `json:"name,omitempty"`
	File     *FileLink `json:"file,omitempty"`
	External *FileLink `json:"external,omitempty"`
}

func (f File) URL() string {
	if f.File != nil && f.File.URL != "" {
		return f.File.URL
	}
	if f.External != nil {
		return f.External.URL
	}
	return ""
}

// Property is one typed value of a page. Only the field matching Type is
// meaningful.
type Property struct {
	Type        PropertyType `json:"type"`
	Title       []RichText   `json:"title,omitempty"`
	RichText    []RichText   `json:"rich_text,omitempty"`
	Select      *Option      `json:"select,omitempty"`
	Status      *Option      `json:"status,omitempty"`
	MultiSelect []Option     `json:"multi_select,omitempty"`
	Date        *DateRange   `json:"date,omitempty"`
	Number      *float64     `json:"number,omitempty"`
	Checkbox    *bool        `json:"checkbox,omitempty"`
	Files       []File       `json:"files,omitempty"`
}

// MarshalJSON writes the type key even when its value is empty or null,
// which is how a clear is expressed on the wire.
func (p Property) MarshalJSON() ([]byte, error) {
	var value any
	switch p.Type {
	case TypeTitle:
		value = nonNil(p.Title)
	case TypeRichText:
		value = nonNil(p.RichText)
	case TypeSelect:
		value = p.Select
	case TypeStatus:
		value = p.Status
	case TypeMultiSelect:
		value = nonNil(p.MultiSelect)
	case TypeDate:
		value = p.Date
	case TypeNumber:
		value = p.Number
	case TypeCheckbox:
		value = p.Checkbox != nil && *p.Checkbox
	case TypeFiles:
		value = nonNil(p.Files)
	default:
		return nil, fmt.Errorf("docstore: unsupported property type %q", p.Type)
	}
	return json.Marshal(map[string]any{
		"type":         p.Type,
		string(p.Type): value,
	})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func segments(s string) []RichText {
	if s == "" {
		return []RichText{}
	}
	return []RichText{{Type: "text", Text: &TextContent{Content: s}}}
}

func Title(s string) Property {
	return Property{Type: TypeTitle, Title: segments(s)}
}

// Text builds a rich_text value; the empty string clears the property.
func Text(s string) Property {
	return Property{Type: TypeRichText, RichText: segments(s)}
}

// Select builds a select value; the empty name clears the property.
func Select(name string) Property {
	if name == "" {
		return Property{Type: TypeSelect}
	}
	return Property{Type: TypeSelect, Select: &Option{Name: name}}
}

func Status(name string) Property {
	return Property{Type: TypeStatus, Status: &Option{Name: name}}
}

func MultiSelect(names ...string) Property {
	opts := make([]Option, 0, len(names))
	for _, n := range names {
		opts = append(opts, Option{Name: n})
	}
	return Property{Type: TypeMultiSelect, MultiSelect: opts}
}

// Date builds a date value; the empty start clears the property.
func Date(start string) Property {
	if start == "" {
		return Property{Type: TypeDate}
	}
	return Property{Type: TypeDate, Date: &DateRange{Start: start}}
}

func Number(v float64) Property {
	return Property{Type: TypeNumber, Number: &v}
}

func Checkbox(v bool) Property {
	return Property{Type: TypeCheckbox, Checkbox: &v}
}

// ExternalFiles links each URL as an external file named name.
func ExternalFiles(name string, urls []string) Property {
	files := make([]File, 0, len(urls))
	for _, u := range urls {
		files = append(files, File{Type: "external", Name: name, External: &FileLink{URL: u}})
	}
	return Property{Type: TypeFiles, Files: files}
}

// Properties is the property bag of a page keyed by the human-readable
// property name. Every accessor tolerates missing keys and mismatched types.
type Properties map[string]Property

// Text returns the first segment of a title or rich_text property.
func (p Properties) Text(key string) (string, bool) {
	prop, ok := p[key]
	if !ok {
		return "", false
	}
	var segs []RichText
	switch prop.Type {
	case TypeTitle:
		segs = prop.Title
	case TypeRichText:
		segs = prop.RichText
	default:
		return "", false
	}
	if len(segs) == 0 {
		return "", false
	}
	s := segs[0].String()
	return s, s != ""
}

// SelectName returns the option name of a select or status property.
func (p Properties) SelectName(key string) (string, bool) {
	prop, ok := p[key]
	if !ok {
		return "", false
	}
	var opt *Option
	switch prop.Type {
	case TypeSelect:
		opt = prop.Select
	case TypeStatus:
		opt = prop.Status
	}
	if opt == nil || opt.Name == "" {
		return "", false
	}
	return opt.Name, true
}

// SelectOrText reads properties that some collections define as select
// and others as rich_text.
func (p Properties) SelectOrText(key string) (string, bool) {
	if v, ok := p.SelectName(key); ok {
		return v, true
	}
	return p.Text(key)
}

// FirstOption returns the first chosen option of a multi_select property.
func (p Properties) FirstOption(key string) (string, bool) {
	prop, ok := p[key]
	if !ok || prop.Type != TypeMultiSelect || len(prop.MultiSelect) == 0 {
		return "", false
	}
	return prop.MultiSelect[0].Name, prop.MultiSelect[0].Name != ""
}

func (p Properties) DateStart(key string) (string, bool) {
	prop, ok := p[key]
	if !ok || prop.Type != TypeDate || prop.Date == nil || prop.Date.Start == "" {
		return "", false
	}
	return prop.Date.Start, true
}

func (p Properties) Number(key string) (float64, bool) {
	prop, ok := p[key]
	if !ok || prop.Type != TypeNumber || prop.Number == nil {
		return 0, false
	}
	return *prop.Number, true
}

func (p Properties) Checkbox(key string) (bool, bool) {
	prop, ok := p[key]
	if !ok || prop.Type != TypeCheckbox || prop.Checkbox == nil {
		return false, false
	}
	return *prop.Checkbox, true
}

// FileURLs returns the URLs of a files property, never nil.
func (p Properties) FileURLs(key string) []string {
	urls := []string{}
	prop, ok := p[key]
	if !ok || prop.Type != TypeFiles {
		return urls
	}
	for _, f := range prop.Files {
		if u := f.URL(); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// TitleText returns the text of whichever property is the page title.
func (p Properties) TitleText() (string, bool) {
	for key, prop := range p {
		if prop.Type == TypeTitle {
			return p.Text(key)
		}
	}
	return "", false
}

// Merge returns a copy of p with every key of patch overwritten.
func (p Properties) Merge(patch Properties) Properties {
	out := make(Properties, len(p)+len(patch))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}
