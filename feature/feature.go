// Package feature defines the labeled columns making up the design matrix
// of the seasonal strategy.
package feature

import "fmt"

type FeatureType int

const (
	FeatureTypeGrowth FeatureType = iota
	FeatureTypeSeasonality
	FeatureTypeEvent
)

// Feature identifies a single column of the design matrix.
type Feature interface {
	String() string
	Type() FeatureType
}

const (
	GrowthIntercept = "intercept"
	GrowthLinear    = "linear"
)

// Growth represents a trend column, either the intercept or a linear slope
// over the training window.
type Growth struct {
	Name string
}

func NewGrowth(name string) Growth {
	return Growth{Name: name}
}

func Intercept() Growth {
	return NewGrowth(GrowthIntercept)
}

func Linear() Growth {
	return NewGrowth(GrowthLinear)
}

func (g Growth) String() string {
	return fmt.Sprintf("growth_%s", g.Name)
}

func (g Growth) Type() FeatureType {
	return FeatureTypeGrowth
}

type FourierComp string

const (
	FourierCompSin FourierComp = "sin"
	FourierCompCos FourierComp = "cos"
)

// Seasonality represents one fourier term of a seasonal cycle.
type Seasonality struct {
	Name        string
	FourierComp FourierComp
	Order       int
}

func NewSeasonality(name string, fcomp FourierComp, order int) Seasonality {
	return Seasonality{Name: name, FourierComp: fcomp, Order: order}
}

func (s Seasonality) String() string {
	return fmt.Sprintf("seas_%s_%02d_%s", s.Name, s.Order, s.FourierComp)
}

func (s Seasonality) Type() FeatureType {
	return FeatureTypeSeasonality
}

// Event represents an indicator column active on dates covered by a
// recurring calendar event.
type Event struct {
	Name string
}

func NewEvent(name string) Event {
	return Event{Name: name}
}

func (e Event) String() string {
	return fmt.Sprintf("event_%s", e.Name)
}

func (e Event) Type() FeatureType {
	return FeatureTypeEvent
}
