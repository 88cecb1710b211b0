package model

import (
	"github.com/gjkf/seriousengine/pkg/formats"
	"github.com/gjkf/seriousengine/pkg/math"
)

// JointMatrix returns Translate(pos) * Rotate(orient).
func JointMatrix(pos math.Vec3, orient math.Quat) math.Mat4 {
	return math.TranslateVec(pos).Mul(orient.ToMat4())
}

// InverseBindMatrices returns the inverse bind-pose matrix of every joint.
func InverseBindMatrices(joints []formats.MD5Joint) []math.Mat4 {
	out := make([]math.Mat4, len(joints))
	for i, j := range joints {
		out[i] = JointMatrix(j.Position, j.Orientation).Inverse()
	}
	return out
}
