package model

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/gjkf/seriousengine/internal/engine/mesh"
	"github.com/gjkf/seriousengine/internal/logger"
	"github.com/gjkf/seriousengine/pkg/formats"
)

// Load builds GPU meshes for every sub-mesh of md5 and, when anim is not
// nil, decodes its frames against the mesh skeleton. material is shared
// by all meshes.
func Load(up mesh.Uploader, md5 *formats.MD5Mesh, anim *formats.MD5Anim, material *mesh.Material) (*Model, error) {
	m := &Model{}
	for i := range md5.Meshes {
		data, err := BuildMeshData(&md5.Meshes[i], md5.Joints)
		if err != nil {
			m.Destroy()
			return nil, fmt.Errorf("building mesh %d: %w", i, err)
		}
		msh, err := mesh.New(up, data, material)
		if err != nil {
			m.Destroy()
			return nil, fmt.Errorf("uploading mesh %d: %w", i, err)
		}
		m.Meshes = append(m.Meshes, msh)
	}

	if anim != nil {
		frames, err := DecodeFrames(md5.Joints, anim)
		if err != nil {
			m.Destroy()
			return nil, fmt.Errorf("decoding animation: %w", err)
		}
		m.Animation = NewAnimation(anim.Header.CommandLine, frames, anim.Header.FrameRate)
	}

	logger.Info("model loaded",
		zap.Int("meshes", len(m.Meshes)),
		zap.Int("joints", len(md5.Joints)),
		zap.Bool("animated", m.Animation != nil))
	return m, nil
}

// LoadFiles parses an .md5mesh and an optional .md5anim (empty path skips
// it) and loads them.
func LoadFiles(up mesh.Uploader, meshPath, animPath string, material *mesh.Material) (*Model, error) {
	md5, err := formats.ParseMD5MeshFile(meshPath)
	if err != nil {
		return nil, err
	}
	var anim *formats.MD5Anim
	if animPath != "" {
		anim, err = formats.ParseMD5AnimFile(animPath)
		if err != nil {
			return nil, err
		}
	}
	return Load(up, md5, anim, material)
}
