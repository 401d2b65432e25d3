package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/san-kum/springsim/internal/dynamo"
)

func frame() dynamo.Frame {
	a, b := dynamo.Vec2{X: 100, Y: 100}, dynamo.Vec2{X: 500, Y: 100}
	return dynamo.Frame{
		Tick:    7,
		Width:   700,
		Height:  200,
		Dragged: 1,
		Nodes: []dynamo.FrameNode{
			{Pos: a, Pinned: true},
			{Pos: b},
		},
		Edges: [][2]dynamo.Vec2{{a, b}},
	}
}

func TestLiveRendererDrawsNetwork(t *testing.T) {
	var buf bytes.Buffer
	r := NewLiveRendererTo(&buf, "chain", 0)
	r.OnFrame(frame())

	out := buf.String()
	if !strings.HasPrefix(out, clearScreen) {
		t.Error("frame does not clear the screen")
	}
	if !strings.Contains(out, "frame=7") || !strings.Contains(out, "edges=1") {
		t.Errorf("header missing: %q", strings.SplitN(out, "\n", 2)[0])
	}

	// 700x200 world onto 70x20 cells: (100,100) -> (10,10), (500,100) -> (50,10)
	if r.canvas[10][10] != '#' {
		t.Errorf("pinned node drawn as %q", r.canvas[10][10])
	}
	if r.canvas[10][50] != '@' {
		t.Errorf("dragged node drawn as %q", r.canvas[10][50])
	}
	if r.canvas[10][30] != '.' {
		t.Errorf("edge missing, got %q", r.canvas[10][30])
	}
}

func TestLiveRendererThrottles(t *testing.T) {
	var buf bytes.Buffer
	r := NewLiveRendererTo(&buf, "chain", 1)
	r.OnFrame(frame())
	n := buf.Len()
	r.OnFrame(frame())
	if buf.Len() != n {
		t.Error("second frame within the interval was drawn")
	}
}

func TestLiveRendererCursor(t *testing.T) {
	var buf bytes.Buffer
	r := NewLiveRendererTo(&buf, "chain", 0)
	r.Start()
	r.Stop()
	if buf.String() != hideCursor+showCursor {
		t.Errorf("got %q", buf.String())
	}
}
