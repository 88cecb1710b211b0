package main

import "github.com/gjkf/seriousengine/internal/engine/mesh"

// quadData is a unit quad on the XY plane facing +Z, centred on the origin.
func quadData() *mesh.Data {
	return mesh.NewStaticData(
		[]float32{
			-0.5, 0.5, 0,
			-0.5, -0.5, 0,
			0.5, -0.5, 0,
			0.5, 0.5, 0,
		},
		[]float32{
			0, 0,
			0, 1,
			1, 1,
			1, 0,
		},
		[]float32{
			0, 0, 1,
			0, 0, 1,
			0, 0, 1,
			0, 0, 1,
		},
		[]uint32{0, 1, 3, 3, 1, 2},
	)
}

// cubeFaces lists each face as its normal and two in-plane axes.
var cubeFaces = [6][3][3]float32{
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
}

// cubeData is a unit cube with four vertices per face so every face maps
// the whole texture.
func cubeData() *mesh.Data {
	corners := [4][2]float32{{-1, 1}, {-1, -1}, {1, -1}, {1, 1}}
	uvs := [4][2]float32{{0, 0}, {0, 1}, {1, 1}, {1, 0}}

	var pos, tex, norm []float32
	var idx []uint32
	for f, face := range cubeFaces {
		n, u, v := face[0], face[1], face[2]
		for c, k := range corners {
			for axis := 0; axis < 3; axis++ {
				pos = append(pos, 0.5*(n[axis]+k[0]*u[axis]+k[1]*v[axis]))
			}
			tex = append(tex, uvs[c][0], uvs[c][1])
			norm = append(norm, n[0], n[1], n[2])
		}
		base := uint32(f * 4)
		idx = append(idx, base, base+1, base+3, base+3, base+1, base+2)
	}
	return mesh.NewStaticData(pos, tex, norm, idx)
}
