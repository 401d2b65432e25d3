package metrics

import "github.com/san-kum/springsim/internal/dynamo"

// DragShare is the fraction of observed frames in which a node was held.
type DragShare struct {
	name    string
	dragged int
	samples int
}

func NewDragShare() *DragShare {
	return &DragShare{
		name: "drag_share",
	}
}

func (d *DragShare) Name() string {
	return d.name
}

func (d *DragShare) Observe(f dynamo.Frame) {
	if f.Dragged >= 0 {
		d.dragged++
	}
	d.samples++
}

func (d *DragShare) Value() float64 {
	if d.samples == 0 {
		return 0
	}
	return float64(d.dragged) / float64(d.samples)
}

func (d *DragShare) Reset() {
	d.dragged = 0
	d.samples = 0
}

// All returns a fresh instance of every metric.
func All() []dynamo.Metric {
	return []dynamo.Metric{
		NewKineticEnergy(),
		NewSpringEnergy(),
		NewMaxStretch(),
		NewDissipation(),
		NewDragShare(),
	}
}
