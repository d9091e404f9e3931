// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package overlap

import "math"

// Polygon intersection on an integer lattice, after Norman Hardy's
// algorithm. Vertices are scaled into [-gamut/2, gamut/2] with the low
// three bits reserved so that no vertex of one polygon can coincide with a
// vertex or edge of the other; crossings are then unambiguous.

const gamut = 500000000.0

type ipoint struct {
	x, y int64
}

type span struct {
	lo, hi int64
}

// vertex is one arena entry: the lattice point, the ranges of the edge
// leaving it, and the crossing count accumulated while scanning.
type vertex struct {
	ip     ipoint
	rx, ry span
	in     int
}

type bbox struct {
	minX, minY, maxX, maxY float64
}

func (b *bbox) add(p []Point) {
	for _, q := range p {
		b.minX = math.Min(b.minX, q.X)
		b.maxX = math.Max(b.maxX, q.X)
		b.minY = math.Min(b.minY, q.Y)
		b.maxY = math.Max(b.maxY, q.Y)
	}
}

// latticeIntersect returns the signed intersection area of a and b.
func latticeIntersect(a, b []Point) float64 {
	box := bbox{
		minX: math.Inf(1), minY: math.Inf(1),
		maxX: math.Inf(-1), maxY: math.Inf(-1),
	}
	box.add(a)
	box.add(b)

	rngX := box.maxX - box.minX
	rngY := box.maxY - box.minY
	if !(rngX > 0) || !(rngY > 0) {
		return 0
	}
	sclX := gamut / rngX
	sclY := gamut / rngY
	ascale := sclX * sclY
	mid := gamut / 2

	ipa := fit(&box, a, 0, sclX, sclY, mid)
	ipb := fit(&box, b, 2, sclX, sclY, mid)
	na, nb := len(a), len(b)

	s := 0.0
	for j := 0; j < na; j++ {
		for k := 0; k < nb; k++ {
			if !overlaps(ipa[j].rx, ipb[k].rx) || !overlaps(ipa[j].ry, ipb[k].ry) {
				continue
			}
			a1 := -area(ipa[j].ip, ipb[k].ip, ipb[k+1].ip)
			a2 := area(ipa[j+1].ip, ipb[k].ip, ipb[k+1].ip)
			o := a1 < 0
			if o != (a2 < 0) {
				continue
			}
			a3 := area(ipb[k].ip, ipa[j].ip, ipa[j+1].ip)
			a4 := -area(ipb[k+1].ip, ipa[j].ip, ipa[j+1].ip)
			if (a3 < 0) != (a4 < 0) {
				continue
			}
			if o {
				cross(&s, &ipa[j], &ipa[j+1], &ipb[k], &ipb[k+1], a1, a2, a3, a4)
			} else {
				cross(&s, &ipb[k], &ipb[k+1], &ipa[j], &ipa[j+1], a3, a4, a1, a2)
			}
		}
	}
	inness(&s, ipa, na, ipb, nb)
	inness(&s, ipb, nb, ipa, na)
	return s / ascale
}

// fit scales p onto the lattice. The returned arena has len(p)+1 entries;
// the last repeats the first to close the polygon. fudge tags the polygon
// in bit 1 and the vertex parity goes in bit 0.
func fit(box *bbox, p []Point, fudge int64, sclX, sclY, mid float64) []vertex {
	n := len(p)
	ix := make([]vertex, n+1)
	for c := n - 1; c >= 0; c-- {
		ix[c].ip.x = (int64((p[c].X-box.minX)*sclX-mid) &^ 7) | fudge | int64(c&1)
		ix[c].ip.y = (int64((p[c].Y-box.minY)*sclY-mid) &^ 7) | fudge
	}
	ix[0].ip.y += int64(n & 1)
	ix[n] = ix[0]
	for c := n - 1; c >= 0; c-- {
		ix[c].rx = spanOf(ix[c].ip.x, ix[c+1].ip.x)
		ix[c].ry = spanOf(ix[c].ip.y, ix[c+1].ip.y)
		ix[c].in = 0
	}
	return ix
}

func spanOf(a, b int64) span {
	if a < b {
		return span{lo: a, hi: b}
	}
	return span{lo: b, hi: a}
}

func overlaps(p, q span) bool {
	return p.lo < q.hi && q.lo < p.hi
}

// area is twice the signed area of triangle a, p, q.
func area(a, p, q ipoint) float64 {
	return float64(p.x)*float64(q.y) - float64(p.y)*float64(q.x) +
		float64(a.x)*float64(p.y-q.y) + float64(a.y)*float64(q.x-p.x)
}

func contrib(s *float64, f, t ipoint, w int) {
	*s += float64(w) * float64(t.x-f.x) * float64(t.y+f.y) / 2
}

// cross adds the contribution of the crossing of edge a→b with edge c→d.
func cross(s *float64, a, b, c, d *vertex, a1, a2, a3, a4 float64) {
	r1 := a1 / (a1 + a2)
	r2 := a3 / (a3 + a4)
	contrib(s, ipoint{
		x: int64(float64(a.ip.x) + r1*float64(b.ip.x-a.ip.x)),
		y: int64(float64(a.ip.y) + r1*float64(b.ip.y-a.ip.y)),
	}, b.ip, 1)
	contrib(s, d.ip, ipoint{
		x: int64(float64(c.ip.x) + r2*float64(d.ip.x-c.ip.x)),
		y: int64(float64(c.ip.y) + r2*float64(d.ip.y-c.ip.y)),
	}, 1)
	a.in++
	c.in--
}

// inness adds the edges of P that lie inside Q. The winding number of P's
// first vertex with respect to Q seeds the count, and each crossing
// recorded on P's vertices updates it as the walk proceeds.
func inness(s *float64, P []vertex, cP int, Q []vertex, cQ int) {
	w := 0
	p := P[0].ip
	for c := cQ - 1; c >= 0; c-- {
		if Q[c].rx.lo < p.x && p.x < Q[c].rx.hi {
			sgn := area(p, Q[c].ip, Q[c+1].ip) > 0
			if sgn == (Q[c].ip.x < Q[c+1].ip.x) {
				if sgn {
					w--
				} else {
					w++
				}
			}
		}
	}
	for j := 0; j < cP; j++ {
		if w != 0 {
			contrib(s, P[j].ip, P[j+1].ip, w)
		}
		w += P[j].in
	}
}
