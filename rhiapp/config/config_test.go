// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validYAML = `
application:
  log: app.log
  window:
    title: key
    width: 1
    height: 1
  control:
    forward: w
    backward: s
    left: a
    right: d
    jump: space
    squat: c
    sprint: shift
    attack: mouse1
    free_camera: f
engine:
  root: .
  asset: asset
  schema: schema.json
  default_world: world.json
  big_icon: big.png
  small_icon: small.png
  font: font.ttf
  global_rendering_settings: rendering.json
  global_particle_setting: particle.json
  jolt_asset: jolt.bin
`

func writeTemp(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeTemp(t, "app.yaml", validYAML)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Application.Window.Title != "key" {
		t.Fatalf("Window.Title = %q, want %q", cfg.Application.Window.Title, "key")
	}
	if cfg.Engine.BigIcon != "big.png" {
		t.Fatalf("Engine.BigIcon = %q, want %q", cfg.Engine.BigIcon, "big.png")
	}
}

func TestLoadJSON(t *testing.T) {
	jsonBody := `{
		"application": {
			"log": "app.log",
			"window": {"title": "key", "width": 1, "height": 1},
			"control": {"forward":"w","backward":"s","left":"a","right":"d","jump":"space","squat":"c","sprint":"shift","attack":"mouse1","free_camera":"f"}
		},
		"engine": {
			"root": ".", "asset": "asset", "schema": "schema.json", "default_world": "world.json",
			"big_icon": "big.png", "small_icon": "small.png", "font": "font.ttf",
			"global_rendering_settings": "rendering.json", "global_particle_setting": "particle.json",
			"jolt_asset": "jolt.bin"
		}
	}`
	path := writeTemp(t, "app.json", jsonBody)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Application.Log != "app.log" {
		t.Fatalf("Application.Log = %q, want %q", cfg.Application.Log, "app.log")
	}
}

func TestLoadMissingKeysFailsWithEveryOmission(t *testing.T) {
	path := writeTemp(t, "app.yaml", "application:\n  log: app.log\n")
	_, err := Load(path)
	if err == nil {
		t.Fatal("Load succeeded on a configuration missing most required keys")
	}
	for _, want := range []string{"application.window.title", "engine.root", "engine.big_icon"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestLoadUnrecognizedExtension(t *testing.T) {
	path := writeTemp(t, "app.toml", validYAML)
	if _, err := Load(path); err == nil {
		t.Fatal("Load succeeded on an unrecognized extension")
	}
}
