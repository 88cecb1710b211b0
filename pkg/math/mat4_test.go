package math

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-5

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())
	if result != m {
		t.Errorf("M * I should equal M: got %v, want %v", result, m)
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	// Translation should be in column 4 (indices 12, 13, 14)
	if got := m.Translation(); got != (Vec3{5, 10, 15}) {
		t.Errorf("Translate: got %v, want (5, 10, 15)", got)
	}
}

func TestTransformPoint(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		p    Vec3
		want Vec3
	}{
		{"translate", Translate(10, 20, 30), Vec3{1, 2, 3}, Vec3{11, 22, 33}},
		{"scale", Scale(2, 2, 2), Vec3{1, 2, 3}, Vec3{2, 4, 6}},
		{"rotateY90", RotateY(float32(math.Pi / 2)), Vec3{1, 0, 0}, Vec3{0, 0, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.m.TransformPoint(tt.p)
			if got.Distance(tt.want) > 0.001 {
				t.Errorf("TransformPoint() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransformDirectionIgnoresTranslation(t *testing.T) {
	m := Translate(4, 5, 6)
	if got := m.TransformDirection(Vec3{0, 0, 1}); got != (Vec3{0, 0, 1}) {
		t.Errorf("TransformDirection() = %v, want (0, 0, 1)", got)
	}
}

func TestMatchesMathGL(t *testing.T) {
	tests := []struct {
		name string
		got  Mat4
		want mgl32.Mat4
	}{
		{"perspective", Perspective(Radians(60), 16.0/9.0, 0.01, 1000), mgl32.Perspective(mgl32.DegToRad(60), 16.0/9.0, 0.01, 1000)},
		{"ortho", Ortho(-10, 10, -10, 10, -1, 20), mgl32.Ortho(-10, 10, -10, 10, -1, 20)},
		{"ortho2d", Ortho2D(0, 800, 600, 0), mgl32.Ortho2D(0, 800, 600, 0)},
		{"rotateX", RotateX(0.7), mgl32.HomogRotate3DX(0.7)},
		{"rotateZ", RotateZ(-1.2), mgl32.HomogRotate3DZ(-1.2)},
		{
			"rotate then translate",
			RotateX(0.3).Mul(RotateY(1.1)).Mul(Translate(-1, -2, -3)),
			mgl32.HomogRotate3DX(0.3).Mul4(mgl32.HomogRotate3DY(1.1)).Mul4(mgl32.Translate3D(-1, -2, -3)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.ApproxEqual(Mat4(tt.want), eps) {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestTranslationRotateScale(t *testing.T) {
	q := QuatFromAxisAngle(Vec3{0, 1, 0}, 0.5)
	got := TranslationRotateScale(Vec3{1, 2, 3}, q, Vec3{2, 2, 2})
	want := Translate(1, 2, 3).Mul(q.ToMat4()).Mul(Scale(2, 2, 2))

	if !got.ApproxEqual(want, eps) {
		t.Errorf("TranslationRotateScale() = %v, want %v", got, want)
	}
}

func TestInverse(t *testing.T) {
	m := Translate(3, -4, 5).Mul(RotateY(0.4)).Mul(RotateX(-1.3))
	if got := m.Mul(m.Inverse()); !got.ApproxEqual(Identity(), eps) {
		t.Errorf("M * M^-1 = %v, want identity", got)
	}
	if got := m.Inverse(); !got.ApproxEqual(Mat4(mgl32.Mat4(m).Inv()), 1e-4) {
		t.Errorf("Inverse() = %v, want %v", got, mgl32.Mat4(m).Inv())
	}
}

func TestInverseSingular(t *testing.T) {
	var zero Mat4
	if got := zero.Inverse(); got != Identity() {
		t.Errorf("Inverse of singular matrix = %v, want identity", got)
	}
}

func TestTranspose3x3(t *testing.T) {
	view := RotateX(0.2).Mul(RotateY(0.9))
	m := Translate(1, 2, 3).Transpose3x3(view)

	// The rotation block must cancel the view rotation.
	rot := view.Mul(m).WithTranslation(Vec3{})
	if !rot.ApproxEqual(Identity(), eps) {
		t.Errorf("view * transpose3x3(view) = %v, want identity rotation", rot)
	}
	if m.Translation() != (Vec3{1, 2, 3}) {
		t.Errorf("Transpose3x3 changed translation: %v", m.Translation())
	}
}

func TestScaleUniform(t *testing.T) {
	m := Translate(1, 1, 1).ScaleUniform(3)
	want := Translate(1, 1, 1).Mul(Scale(3, 3, 3))
	if m != want {
		t.Errorf("ScaleUniform() = %v, want %v", m, want)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
