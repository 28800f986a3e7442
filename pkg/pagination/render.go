package pagination

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

var viewTemplate = template.Must(template.ParseFS(templateFS, "templates/pagination.html"))

// Chevrons shown on the previous/next controls.
const (
	prevText = "‹"
	nextText = "›"
)

type renderData struct {
	Root        string
	Wrapper     string
	NavSmall    string
	Layout      string
	Stacked     bool
	FormAction  string
	CurrentPage int
	Items       []renderItem
	Prev        renderItem
	Next        renderItem
}

type renderItem struct {
	Label    string
	Text     string
	Aria     string
	Value    string
	Href     string
	Class    string
	Ellipsis bool
	Button   bool
	Active   bool
	Disabled bool
}

// Render writes the view as HTML. A nil view writes nothing.
func (v *View) Render(w io.Writer) error {
	if v == nil {
		return nil
	}
	if err := viewTemplate.ExecuteTemplate(w, "pagination", v.renderData()); err != nil {
		return fmt.Errorf("render pagination: %w", err)
	}
	return nil
}

// HTML renders the view for embedding in a page template.
func (v *View) HTML() (template.HTML, error) {
	var buf bytes.Buffer
	if err := v.Render(&buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func (v *View) renderData() renderData {
	d := renderData{
		Root:        v.Classes.Root,
		Wrapper:     v.Classes.Wrapper,
		NavSmall:    NavSmallClass,
		Layout:      v.Layout.String(),
		Stacked:     v.Stacked(),
		FormAction:  v.FormAction,
		CurrentPage: v.CurrentPage,
		Items:       make([]renderItem, 0, len(v.Items)),
	}
	for _, c := range v.Items {
		d.Items = append(d.Items, v.renderItem(c))
	}
	d.Prev = v.renderItem(v.Prev)
	d.Next = v.renderItem(v.Next)
	return d
}

func (v *View) renderItem(c *Control) renderItem {
	item := renderItem{
		Label:    c.Label,
		Text:     c.Label,
		Value:    c.Value(),
		Href:     c.Href,
		Ellipsis: c.Kind == ControlEllipsis,
		Button:   v.FormAction != "",
		Active:   c.Active,
		Disabled: c.Disabled,
	}

	classes := []string{v.Classes.Item}
	switch c.Kind {
	case ControlEllipsis:
		// class overrides apply to buttons only
		classes = []string{DefaultItemClass, "ellipsis"}
	case ControlPrev:
		classes = append(classes, "prev")
		item.Text, item.Aria = prevText, c.Label
	case ControlNext:
		classes = append(classes, "next")
		item.Text, item.Aria = nextText, c.Label
	}
	if c.Active {
		classes = append(classes, "active")
	}
	if c.Disabled && c.Kind != ControlEllipsis {
		classes = append(classes, "disabled")
	}
	item.Class = strings.Join(classes, " ")
	return item
}
