// Package config handles engine configuration loading and management.
package config

// Config holds all engine settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Render   RenderConfig   `yaml:"render"`
	Assets   AssetsConfig   `yaml:"assets"`
	Logging  LoggingConfig  `yaml:"logging"`
	Debug    DebugConfig    `yaml:"debug"`
}

// GraphicsConfig holds display and loop settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`  // only applied when vsync is off
	TargetUPS  int  `yaml:"target_ups"` // fixed logic updates per second
}

// RenderConfig holds projection and pass settings.
type RenderConfig struct {
	FOV              float32 `yaml:"fov"` // degrees
	ZNear            float32 `yaml:"z_near"`
	ZFar             float32 `yaml:"z_far"`
	SpecularPower    float32 `yaml:"specular_power"`
	ShadowResolution int32   `yaml:"shadow_resolution"`
	RenderShadows    bool    `yaml:"render_shadows"`
}

// AssetsConfig holds asset roots and the demo scene's files.
// Paths are relative to the roots.
type AssetsConfig struct {
	Roots            []string `yaml:"roots"`
	Model            string   `yaml:"model"`
	Animation        string   `yaml:"animation"`
	HeightMap        string   `yaml:"height_map"`
	TerrainTexture   string   `yaml:"terrain_texture"`
	SkyBoxTexture    string   `yaml:"skybox_texture"`
	ParticleTexture  string   `yaml:"particle_texture"`
	ParticleAtlasCol int      `yaml:"particle_atlas_cols"`
	ParticleAtlasRow int      `yaml:"particle_atlas_rows"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// DebugConfig holds developer settings.
type DebugConfig struct {
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   60,
			TargetUPS:  30,
		},
		Render: RenderConfig{
			FOV:              60,
			ZNear:            0.01,
			ZFar:             1000,
			SpecularPower:    10,
			ShadowResolution: 1024,
			RenderShadows:    true,
		},
		Assets: AssetsConfig{
			Roots:            []string{"assets"},
			Model:            "models/monster.md5mesh",
			Animation:        "models/monster.md5anim",
			HeightMap:        "textures/heightmap.png",
			TerrainTexture:   "textures/terrain.png",
			SkyBoxTexture:    "textures/skybox.png",
			ParticleTexture:  "textures/particle_anim.png",
			ParticleAtlasCol: 4,
			ParticleAtlasRow: 4,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Debug: DebugConfig{
			ScreenshotDir: "screenshots",
		},
	}
}
