package model

import (
	"fmt"

	"github.com/gjkf/seriousengine/internal/engine/mesh"
	"github.com/gjkf/seriousengine/pkg/formats"
	"github.com/gjkf/seriousengine/pkg/math"
)

// BuildMeshData converts an MD5 sub-mesh into bind-pose vertex data.
// Each vertex keeps at most mesh.MaxWeights weights; extra weights are
// dropped. Normals are accumulated from the triangles sharing a vertex.
func BuildMeshData(sub *formats.MD5SubMesh, joints []formats.MD5Joint) (*mesh.Data, error) {
	n := len(sub.Vertices)
	data := &mesh.Data{
		Positions:    make([]float32, 0, n*3),
		TexCoords:    make([]float32, 0, n*2),
		Normals:      make([]float32, n*3),
		Weights:      make([]float32, n*mesh.MaxWeights),
		JointIndices: make([]int32, n*mesh.MaxWeights),
		Indices:      make([]uint32, 0, len(sub.Triangles)*3),
	}

	positions := make([]math.Vec3, n)
	for i, v := range sub.Vertices {
		if v.StartWeight < 0 || v.StartWeight+v.WeightCount > len(sub.Weights) {
			return nil, fmt.Errorf("%w: vertex %d references weights [%d, %d) of %d",
				formats.ErrMalformedMD5, i, v.StartWeight, v.StartWeight+v.WeightCount, len(sub.Weights))
		}

		var pos math.Vec3
		for k := 0; k < v.WeightCount; k++ {
			w := sub.Weights[v.StartWeight+k]
			if w.Joint < 0 || w.Joint >= len(joints) {
				return nil, fmt.Errorf("%w: weight %d references joint %d of %d",
					formats.ErrMalformedMD5, w.Index, w.Joint, len(joints))
			}
			j := joints[w.Joint]
			pos = pos.Add(j.Orientation.Rotate(w.Position).Add(j.Position).Scale(w.Bias))

			if k < mesh.MaxWeights {
				data.Weights[i*mesh.MaxWeights+k] = w.Bias
				data.JointIndices[i*mesh.MaxWeights+k] = int32(w.Joint)
			}
		}
		positions[i] = pos
		data.Positions = append(data.Positions, pos.X, pos.Y, pos.Z)
		data.TexCoords = append(data.TexCoords, v.TexCoord.X, v.TexCoord.Y)
	}

	normals := make([]math.Vec3, n)
	for _, tri := range sub.Triangles {
		for _, idx := range tri.Vertices {
			if idx < 0 || idx >= n {
				return nil, fmt.Errorf("%w: triangle %d references vertex %d of %d",
					formats.ErrMalformedMD5, tri.Index, idx, n)
			}
		}
		i0, i1, i2 := tri.Vertices[0], tri.Vertices[1], tri.Vertices[2]
		data.Indices = append(data.Indices, uint32(i0), uint32(i1), uint32(i2))

		v0, v1, v2 := positions[i0], positions[i1], positions[i2]
		normal := v2.Sub(v0).Cross(v1.Sub(v0)).Normalize()
		normals[i0] = normals[i0].Add(normal)
		normals[i1] = normals[i1].Add(normal)
		normals[i2] = normals[i2].Add(normal)
	}
	for i, nv := range normals {
		nv = nv.Normalize()
		data.Normals[i*3], data.Normals[i*3+1], data.Normals[i*3+2] = nv.X, nv.Y, nv.Z
	}

	return data, nil
}
