package models

import (
	"strconv"
	"strings"
)

// BoundedParameter is an integer held inside [min,max] with observers that
// are notified after every change. It is owned by the UI loop and is not
// safe for concurrent use.
type BoundedParameter struct {
	name      string
	min       int
	max       int
	value     int
	observers []func(int)
}

func NewBoundedParameter(name string, min, max, initial int) *BoundedParameter {
	if min > max {
		min, max = max, min
	}
	p := &BoundedParameter{name: name, min: min, max: max}
	p.value = p.clamp(initial)
	return p
}

func (p *BoundedParameter) Name() string { return p.name }
func (p *BoundedParameter) Min() int     { return p.min }
func (p *BoundedParameter) Max() int     { return p.max }
func (p *BoundedParameter) Get() int     { return p.value }

// Set clamps v into range and stores it. Observers run only when the stored
// value actually changes; the return value reports whether it did.
func (p *BoundedParameter) Set(v int) bool {
	v = p.clamp(v)
	if v == p.value {
		return false
	}
	p.value = v
	for _, fn := range p.observers {
		fn(v)
	}
	return true
}

// SetText is the typed-entry path. Text that is not an integer inside the
// domain is ignored and the previous value kept.
func (p *BoundedParameter) SetText(text string) bool {
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || v < p.min || v > p.max {
		return false
	}
	p.Set(v)
	return true
}

// Subscribe registers fn to be called with the new value after each change.
func (p *BoundedParameter) Subscribe(fn func(int)) {
	p.observers = append(p.observers, fn)
}

func (p *BoundedParameter) clamp(v int) int {
	if v < p.min {
		return p.min
	}
	if v > p.max {
		return p.max
	}
	return v
}

// ParameterSet holds the six HSV range parameters.
type ParameterSet struct {
	LowerH *BoundedParameter
	LowerS *BoundedParameter
	LowerV *BoundedParameter
	UpperH *BoundedParameter
	UpperS *BoundedParameter
	UpperV *BoundedParameter

	onChange []func()
}

func NewParameterSet() *ParameterSet {
	ps := &ParameterSet{
		LowerH: NewBoundedParameter("Lower Hue", 0, HueMax, 0),
		LowerS: NewBoundedParameter("Lower Saturation", 0, SaturationMax, 0),
		LowerV: NewBoundedParameter("Lower Value", 0, ValueMax, 0),
		UpperH: NewBoundedParameter("Upper Hue", 0, HueMax, HueMax),
		UpperS: NewBoundedParameter("Upper Saturation", 0, SaturationMax, SaturationMax),
		UpperV: NewBoundedParameter("Upper Value", 0, ValueMax, ValueMax),
	}

	for _, p := range ps.All() {
		p.Subscribe(func(int) {
			for _, fn := range ps.onChange {
				fn()
			}
		})
	}
	return ps
}

// All returns the parameters in display order: lower H,S,V then upper H,S,V.
func (ps *ParameterSet) All() []*BoundedParameter {
	return []*BoundedParameter{ps.LowerH, ps.LowerS, ps.LowerV, ps.UpperH, ps.UpperS, ps.UpperV}
}

// OnChange registers fn to run after any parameter changes.
func (ps *ParameterSet) OnChange(fn func()) {
	ps.onChange = append(ps.onChange, fn)
}

func (ps *ParameterSet) Lower() Triple {
	return Triple{H: ps.LowerH.Get(), S: ps.LowerS.Get(), V: ps.LowerV.Get()}
}

func (ps *ParameterSet) Upper() Triple {
	return Triple{H: ps.UpperH.Get(), S: ps.UpperS.Get(), V: ps.UpperV.Get()}
}

func (ps *ParameterSet) Bounds() HSVBounds {
	return HSVBounds{Lower: ps.Lower(), Upper: ps.Upper()}
}
