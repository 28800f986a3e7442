package pagination

import (
	"strconv"
)

// Layout selects where the previous/next controls are placed.
type Layout int

const (
	// LayoutInline places previous/next at both ends of the page numbers.
	LayoutInline Layout = iota
	// LayoutStacked groups previous/next side by side beneath the page numbers.
	LayoutStacked
)

// String returns the layout name used in markup.
func (l Layout) String() string {
	if l == LayoutStacked {
		return "stacked"
	}
	return "inline"
}

// ControlKind identifies what a control renders.
type ControlKind int

const (
	// ControlPage selects the page in Control.Target.
	ControlPage ControlKind = iota
	// ControlEllipsis stands for an elided run of pages and is never interactive.
	ControlEllipsis
	// ControlPrev moves to the previous page and is disabled on the first page.
	ControlPrev
	// ControlNext moves to the next page and is disabled on the last page.
	ControlNext
)

// Form values identifying the previous and next controls.
const (
	TargetPrev = "prev"
	TargetNext = "next"
)

// Props is the state a host hands to the paginator on every render.
// The host owns CurrentPage and changes it only from OnPageChange.
type Props struct {
	CurrentPage     int
	TotalItemsCount int
	ItemsPerPage    int
	OnPageChange    func(page int)
}

// Classes overrides the default class names of the rendered markup.
// Empty fields keep the defaults.
type Classes struct {
	Root    string
	Wrapper string
	Item    string
}

// Default class names.
const (
	DefaultRootClass    = "pagination"
	DefaultWrapperClass = "pagination-wrapper"
	DefaultItemClass    = "pagination-item"
	NavSmallClass       = "pagination-nav-sm"
)

// Option configures a Paginator.
type Option func(*Paginator)

// WithSiblingCount sets the number of pages shown on each side of the current page.
func WithSiblingCount(n int) Option {
	return func(p *Paginator) {
		p.siblingCount = n
	}
}

// WithClasses overrides the class names of the rendered markup.
func WithClasses(c Classes) Option {
	return func(p *Paginator) {
		p.classes = c
	}
}

// WithViewport sets the viewport used to choose the layout.
func WithViewport(v Viewport) Option {
	return func(p *Paginator) {
		if v != nil {
			p.viewport = v
		}
	}
}

// WithPageURL sets the link target rendered for each page.
func WithPageURL(fn func(page int) string) Option {
	return func(p *Paginator) {
		p.pageURL = fn
	}
}

// WithFormAction renders the controls as buttons of a form posted to action.
// Without it controls render as links to their page URL.
func WithFormAction(action string) Option {
	return func(p *Paginator) {
		p.formAction = action
	}
}

// Paginator maps a pagination range onto interactive controls.
// It holds no state across renders; build a new one from fresh Props each time.
type Paginator struct {
	props        Props
	siblingCount int
	classes      Classes
	viewport     Viewport
	pageURL      func(page int) string
	formAction   string
}

// NewPaginator creates a paginator for props.
func NewPaginator(props Props, opts ...Option) *Paginator {
	p := &Paginator{
		props:        props,
		siblingCount: DefaultSiblingCount,
		viewport:     FixedWidth(0),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Range returns the tokens for the paginator's props.
func (p *Paginator) Range() []Token {
	return ComputeRange(p.props.CurrentPage, p.props.TotalItemsCount, p.props.ItemsPerPage, p.siblingCount)
}

// View builds the controls to render, or returns nil when there is nothing to
// paginate: an inactive current page (0) or fewer than two tokens.
func (p *Paginator) View() *View {
	current := p.props.CurrentPage
	if current <= 0 {
		return nil
	}

	tokens := p.Range()
	if len(tokens) < 2 {
		return nil
	}
	lastPage := tokens[len(tokens)-1].Page()

	v := &View{
		CurrentPage: current,
		LastPage:    lastPage,
		Tokens:      tokens,
		Layout:      LayoutInline,
		Classes:     p.resolvedClasses(),
		FormAction:  p.formAction,
	}
	if p.viewport.MaxWidth(SmallScreenMaxWidth) {
		v.Layout = LayoutStacked
	}

	v.Items = make([]*Control, 0, len(tokens))
	for _, t := range tokens {
		if t.IsEllipsis() {
			v.Items = append(v.Items, &Control{Kind: ControlEllipsis, Label: t.String(), Disabled: true})
			continue
		}
		page := t.Page()
		v.Items = append(v.Items, p.control(ControlPage, t.String(), page, page == current, page == current))
	}

	v.Prev = p.control(ControlPrev, "Previous page", current-1, false, current <= 1)
	v.Next = p.control(ControlNext, "Next page", min(current, lastPage-1)+1, false, current >= lastPage)

	return v
}

func (p *Paginator) control(kind ControlKind, label string, target int, active, disabled bool) *Control {
	c := &Control{
		Kind:     kind,
		Label:    label,
		Target:   target,
		Active:   active,
		Disabled: disabled,
		onClick:  p.props.OnPageChange,
	}
	if p.pageURL != nil && !disabled {
		c.Href = p.pageURL(target)
	}
	return c
}

func (p *Paginator) resolvedClasses() Classes {
	c := p.classes
	if c.Root == "" {
		c.Root = DefaultRootClass
	}
	if c.Wrapper == "" {
		c.Wrapper = DefaultWrapperClass
	}
	if c.Item == "" {
		c.Item = DefaultItemClass
	}
	return c
}

// View is one render of the paginator.
type View struct {
	CurrentPage int
	LastPage    int
	Tokens      []Token
	Items       []*Control
	Prev        *Control
	Next        *Control
	Layout      Layout
	Classes     Classes
	FormAction  string
}

// Stacked reports whether previous/next are grouped beneath the page numbers.
func (v *View) Stacked() bool {
	return v.Layout == LayoutStacked
}

// Lookup returns the control submitted as target: "prev", "next" or a page number.
func (v *View) Lookup(target string) (*Control, bool) {
	switch target {
	case TargetPrev:
		return v.Prev, true
	case TargetNext:
		return v.Next, true
	}

	page, err := strconv.Atoi(target)
	if err != nil {
		return nil, false
	}
	for _, c := range v.Items {
		if c.Kind == ControlPage && c.Target == page {
			return c, true
		}
	}
	return nil, false
}

// Control is a clickable pagination item or an ellipsis separator.
type Control struct {
	Kind     ControlKind
	Label    string
	Target   int
	Href     string
	Active   bool
	Disabled bool

	onClick func(page int)
}

// Value returns the form value identifying the control.
func (c *Control) Value() string {
	switch c.Kind {
	case ControlPrev:
		return TargetPrev
	case ControlNext:
		return TargetNext
	case ControlEllipsis:
		return ""
	default:
		return strconv.Itoa(c.Target)
	}
}

// Interactive reports whether the control can be activated at all.
func (c *Control) Interactive() bool {
	return c.Kind != ControlEllipsis
}

// Click activates the control. It invokes the page change callback with the
// control's target and returns true, unless the control is disabled or an ellipsis.
func (c *Control) Click() bool {
	if c == nil || !c.Interactive() || c.Disabled {
		return false
	}
	if c.onClick != nil {
		c.onClick(c.Target)
	}
	return true
}
