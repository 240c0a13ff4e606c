package chart

import "github.com/lucasb-eyer/go-colorful"

// Role says which part of a chart a primitive draws.
type Role int

const (
	RoleGrid Role = iota
	RoleAxis
	RoleTic
	RoleTrack
	RoleBar
	RoleArc
	RoleXLabel
	RoleYLabel
	RoleLegend
	RoleTitle
)

func (r Role) String() string {
	switch r {
	case RoleGrid:
		return "grid"
	case RoleAxis:
		return "axis"
	case RoleTic:
		return "tic"
	case RoleTrack:
		return "track"
	case RoleBar:
		return "bar"
	case RoleArc:
		return "arc"
	case RoleXLabel:
		return "x-label"
	case RoleYLabel:
		return "y-label"
	case RoleLegend:
		return "legend"
	case RoleTitle:
		return "title"
	default:
		return "unknown"
	}
}

// Primitive is one drawable element: RoundedRect, ArcStroke, Segment or
// Label. The set is closed.
type Primitive interface {
	Kind() Role
	primitive()
}

type RoundedRect struct {
	Role       Role
	Rect       Rect
	Radius     float64
	Fill       colorful.Color
	Transition *BarTransition
}

// Shape is the rectangle and corner radius at linear progress p.
func (r RoundedRect) Shape(p float64) (Rect, float64) {
	if r.Transition == nil {
		return r.Rect, r.Radius
	}
	return r.Transition.At(p)
}

type ArcStroke struct {
	Role       Role
	Arc        Arc
	Stroke     colorful.Color
	Transition *ArcTransition
}

func (a ArcStroke) Shape(p float64) Arc {
	if a.Transition == nil {
		return a.Arc
	}
	return a.Transition.At(p)
}

// Segment is a straight axis, tic or grid line.
type Segment struct {
	Role   Role
	From   Point
	To     Point
	Stroke colorful.Color
	Width  float64
	Dashed bool
}

type Anchor int

const (
	AnchorMiddle Anchor = iota
	AnchorStart
	AnchorEnd
)

// Label is positioned text; Pos is the anchor point on the baseline.
type Label struct {
	Role   Role
	Pos    Point
	Text   string
	Anchor Anchor
	Color  colorful.Color
}

func (r RoundedRect) Kind() Role { return r.Role }
func (a ArcStroke) Kind() Role   { return a.Role }
func (s Segment) Kind() Role     { return s.Role }
func (l Label) Kind() Role       { return l.Role }

func (RoundedRect) primitive() {}
func (ArcStroke) primitive()   {}
func (Segment) primitive()     {}
func (Label) primitive()       {}
