// Copyright 2026 The Spall Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command spallflame renders a static PNG flame graph for one (pid, tid)
// thread's nested scopes in a Spall trace: one row per call-stack depth,
// each frame drawn as a box spanning its [Start, End) time range.
package main

import (
	"flag"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io/ioutil"
	"log"
	"os"

	"github.com/golang/freetype"
	"golang.org/x/image/font"

	"github.com/tracespall/spall/internal/flamescale"
	"github.com/tracespall/spall/spallfile"
	"github.com/tracespall/spall/spallsession"
)

const (
	rowHeight  = 18
	fontSize   = 11
	defaultTTF = "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf"
)

func main() {
	var (
		flagInput  = flag.String("i", "trace.spall", "input trace `file`")
		flagOutput = flag.String("o", "flame.png", "output PNG `file`")
		flagPid    = flag.Int("pid", 0, "pid of the thread to render")
		flagTid    = flag.Int("tid", 0, "tid of the thread to render")
		flagWidth  = flag.Int("width", 1200, "image `width` in pixels")
		flagFont   = flag.String("font", defaultTTF, "path to a TrueType font `file` for frame labels")
	)
	flag.Parse()
	if flag.NArg() > 0 {
		flag.Usage()
		os.Exit(1)
	}

	f, err := spallfile.Open(*flagInput)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	sess, err := spallsession.Build(f, spallfile.RecordsFileOrder)
	if err != nil {
		log.Fatal(err)
	}

	roots := sess.Roots(uint32(*flagPid), uint32(*flagTid))
	if len(roots) == 0 {
		log.Fatalf("no completed scopes recorded for pid=%d tid=%d", *flagPid, *flagTid)
	}

	var times []float64
	maxDepth := 0
	var walk func(fr *spallsession.Frame, depth int)
	walk = func(fr *spallsession.Frame, depth int) {
		times = append(times, fr.Start, fr.End)
		if depth > maxDepth {
			maxDepth = depth
		}
		for _, child := range fr.Children {
			walk(child, depth+1)
		}
	}
	for _, root := range roots {
		walk(root, 0)
	}

	xScale := flamescale.NewTimeAxis(times)
	xOutput := flamescale.NewPixelAxis(0, float64(*flagWidth))

	height := (maxDepth + 1) * rowHeight
	img := image.NewNRGBA(image.Rect(0, 0, *flagWidth, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	// TODO: No fontconfig equivalent for Go, so the label font path is
	// hard-coded unless overridden with -font.
	var fontCtx *freetype.Context
	fontData, err := ioutil.ReadFile(*flagFont)
	if err != nil {
		log.Printf("labels disabled: reading font: %v", err)
	} else {
		face, err := freetype.ParseFont(fontData)
		if err != nil {
			log.Printf("labels disabled: parsing font: %v", err)
		} else {
			fontCtx = freetype.NewContext()
			fontCtx.SetFont(face)
			fontCtx.SetFontSize(fontSize)
			fontCtx.SetDst(img)
			fontCtx.SetClip(img.Bounds())
			fontCtx.SetSrc(image.Black)
			fontCtx.SetHinting(font.HintingFull)
		}
	}

	var drawFrame func(fr *spallsession.Frame, depth int)
	drawFrame = func(fr *spallsession.Frame, depth int) {
		x0 := xOutput.Of(xScale.Of(fr.Start))
		x1 := xOutput.Of(xScale.Of(fr.End))
		if x1 <= x0 {
			x1 = x0 + 1
		}
		box := image.Rect(int(x0), depth*rowHeight, int(x1), (depth+1)*rowHeight)
		draw.Draw(img, box, &image.Uniform{C: frameColor(fr.Name)}, image.Point{}, draw.Src)

		if fontCtx != nil && box.Dx() > 20 {
			fontCtx.DrawString(fr.Name, freetype.Pt(box.Min.X+2, box.Min.Y+rowHeight-5))
		}
		for _, child := range fr.Children {
			drawFrame(child, depth+1)
		}
	}
	for _, root := range roots {
		drawFrame(root, 0)
	}

	out, err := os.Create(*flagOutput)
	if err != nil {
		log.Fatal(err)
	}
	defer out.Close()
	if err := png.Encode(out, img); err != nil {
		log.Fatal(err)
	}
}

// frameColor derives a stable, visually distinct color from a scope name:
// the hash picks the hue anywhere on the color wheel, saturation and
// lightness stay fixed.
func frameColor(name string) color.Color {
	h := fnv.New32a()
	fmt.Fprint(h, name)
	hue := float64(h.Sum32()%360) / 360
	return hsl(hue, 0.6, 0.55)
}

// hsl converts an HSL triple (each in [0, 1]) to an NRGBA color.
func hsl(h, s, l float64) color.NRGBA {
	var r, g, b float64
	if s == 0 {
		r, g, b = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		r = hueToRGB(p, q, h+1.0/3)
		g = hueToRGB(p, q, h)
		b = hueToRGB(p, q, h-1.0/3)
	}
	return color.NRGBA{R: uint8(r * 255), G: uint8(g * 255), B: uint8(b * 255), A: 255}
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}
