package renderer

import (
	"errors"

	"github.com/gjkf/seriousengine/internal/engine/gfx"
	"github.com/gjkf/seriousengine/internal/engine/lighting"
	"github.com/gjkf/seriousengine/internal/engine/shader"
	"github.com/gjkf/seriousengine/internal/engine/texture"
)

func createUniforms(p gfx.Program, names ...string) error {
	var errs []error
	for _, n := range names {
		errs = append(errs, p.CreateUniform(n))
	}
	return errors.Join(errs...)
}

func setupDepthUniforms(p gfx.Program) error {
	return createUniforms(p,
		"orthoProjectionMatrix",
		"modelLightViewMatrix",
		"jointsMatrix",
		"isInstanced")
}

func setupSceneUniforms(p gfx.Program) error {
	return errors.Join(
		createUniforms(p,
			"projectionMatrix",
			"modelViewMatrix",
			"texture_sampler",
			"normalMap",
			"specularPower",
			"ambientLight",
			"shadowMap",
			"orthoProjectionMatrix",
			"modelLightViewMatrix",
			"jointsMatrix",
			"isInstanced",
			"numCols",
			"numRows"),
		shader.CreateMaterialUniform(p, "material"),
		shader.CreatePointLightListUniform(p, "pointLights", lighting.MaxPointLights),
		shader.CreateSpotLightListUniform(p, "spotLights", lighting.MaxSpotLights),
		shader.CreateDirectionalLightUniform(p, "directionalLight"),
		shader.CreateFogUniform(p, "fog"),
	)
}

func setupParticlesUniforms(p gfx.Program) error {
	return createUniforms(p,
		"projectionMatrix",
		"texture_sampler",
		"numCols",
		"numRows")
}

func setupSkyBoxUniforms(p gfx.Program) error {
	return createUniforms(p,
		"projectionMatrix",
		"modelViewMatrix",
		"texture_sampler",
		"ambientLight",
		"colour",
		"hasTexture")
}

func setupHudUniforms(p gfx.Program) error {
	return createUniforms(p,
		"projModelMatrix",
		"texture_sampler",
		"colour",
		"hasTexture")
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func atlasCols(t *texture.Texture) int {
	if t == nil || t.NumCols < 1 {
		return 1
	}
	return t.NumCols
}

func atlasRows(t *texture.Texture) int {
	if t == nil || t.NumRows < 1 {
		return 1
	}
	return t.NumRows
}

func atlasOffset(t *texture.Texture, pos int) (float32, float32) {
	if t == nil {
		return 0, 0
	}
	return t.AtlasOffset(pos)
}
