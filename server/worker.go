package server

import (
	"context"
	"html"
	"image"
	"image/color"
	"image/png"
	"math/rand/v2"
	"strings"

	"github.com/ardnew/smscr/rctx"
)

// WorkerPrefix is the URL path prefix under which workers are served.
const WorkerPrefix = "/ext/"

// Worker produces a response in Go instead of a script. It writes through
// the request context, which carries the request and session parameters.
type Worker interface {
	Serve(ctx context.Context, rc *rctx.Context) error
}

// WorkerFunc adapts a function to [Worker].
type WorkerFunc func(ctx context.Context, rc *rctx.Context) error

// Serve calls f.
func (f WorkerFunc) Serve(ctx context.Context, rc *rctx.Context) error { return f(ctx, rc) }

// Builtin workers, registered under [WorkerPrefix] by name.
var builtinWorkers = map[string]Worker{
	"EchoParams":   WorkerFunc(EchoParams),
	"CircleWorker": CircleWorker{Size: 200},
}

// EchoParams writes the request parameters as an HTML table.
func EchoParams(_ context.Context, rc *rctx.Context) error {
	var b strings.Builder

	b.WriteString("<html><body><table border=\"1\">\n")
	b.WriteString("<tr><th>Name</th><th>Value</th></tr>\n")

	for _, name := range rc.ParameterNames() {
		value, _ := rc.Parameter(name)

		b.WriteString("<tr><td>")
		b.WriteString(html.EscapeString(name))
		b.WriteString("</td><td>")
		b.WriteString(html.EscapeString(value))
		b.WriteString("</td></tr>\n")
	}

	b.WriteString("</table></body></html>\n")

	if err := rc.SetMimeType("text/html"); err != nil {
		return err
	}

	_, err := rc.WriteString(b.String())

	return err
}

// CircleWorker draws a filled circle of a random color on a transparent
// square PNG image Size pixels wide.
type CircleWorker struct {
	Size int
}

// Serve implements [Worker].
func (c CircleWorker) Serve(_ context.Context, rc *rctx.Context) error {
	if err := rc.SetMimeType("image/png"); err != nil {
		return err
	}

	return png.Encode(rc, c.draw(color.RGBA{
		R: uint8(rand.UintN(256)),
		G: uint8(rand.UintN(256)),
		B: uint8(rand.UintN(256)),
		A: 0xff,
	}))
}

func (c CircleWorker) draw(fill color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.Size, c.Size))

	r := c.Size / 2
	for y := range c.Size {
		for x := range c.Size {
			if dx, dy := x-r, y-r; dx*dx+dy*dy <= r*r {
				img.Set(x, y, fill)
			}
		}
	}

	return img
}
