// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package config loads the application configuration file the rhiapp shim
// reads on startup: either YAML or JSON, detected by file extension, into
// an ApplicationConfig. The RHI core itself never touches this file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// WindowConfig is application.window.*.
type WindowConfig struct {
	Title  string `yaml:"title" json:"title"`
	Width  int    `yaml:"width" json:"width"`
	Height int    `yaml:"height" json:"height"`
}

// ControlConfig is application.control.*: one key name per bindable
// action.
type ControlConfig struct {
	Forward    string `yaml:"forward" json:"forward"`
	Backward   string `yaml:"backward" json:"backward"`
	Left       string `yaml:"left" json:"left"`
	Right      string `yaml:"right" json:"right"`
	Jump       string `yaml:"jump" json:"jump"`
	Squat      string `yaml:"squat" json:"squat"`
	Sprint     string `yaml:"sprint" json:"sprint"`
	Attack     string `yaml:"attack" json:"attack"`
	FreeCamera string `yaml:"free_camera" json:"free_camera"`
}

// ApplicationSection is the application.* block.
type ApplicationSection struct {
	Log     string        `yaml:"log" json:"log"`
	Window  WindowConfig  `yaml:"window" json:"window"`
	Control ControlConfig `yaml:"control" json:"control"`
}

// EngineSection is the engine.* block.
type EngineSection struct {
	Root                    string `yaml:"root" json:"root"`
	Asset                   string `yaml:"asset" json:"asset"`
	Schema                  string `yaml:"schema" json:"schema"`
	DefaultWorld            string `yaml:"default_world" json:"default_world"`
	BigIcon                 string `yaml:"big_icon" json:"big_icon"`
	SmallIcon               string `yaml:"small_icon" json:"small_icon"`
	Font                    string `yaml:"font" json:"font"`
	GlobalRenderingSettings string `yaml:"global_rendering_settings" json:"global_rendering_settings"`
	GlobalParticleSetting   string `yaml:"global_particle_setting" json:"global_particle_setting"`
	JoltAsset               string `yaml:"jolt_asset" json:"jolt_asset"`
}

// ApplicationConfig is the full configuration file shape spec.md §6 names.
type ApplicationConfig struct {
	Application ApplicationSection `yaml:"application" json:"application"`
	Engine      EngineSection      `yaml:"engine" json:"engine"`
}

// Load reads path, unmarshals it as YAML (.yaml/.yml) or JSON (.json)
// based on its extension, and validates every required key is present.
// Any missing key fails startup rather than silently defaulting, per
// spec.md §6.
func Load(path string) (*ApplicationConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	var cfg ApplicationConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s as YAML: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config: parsing %s as JSON: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config: %s: unrecognized extension %q, want .yaml/.yml/.json", path, ext)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate reports every missing required key at once rather than
// stopping at the first, so a caller fixing their configuration file
// doesn't have to run Load repeatedly to discover each omission in turn.
func (cfg *ApplicationConfig) validate() error {
	var missing []string
	require := func(key, value string) {
		if value == "" {
			missing = append(missing, key)
		}
	}

	require("application.log", cfg.Application.Log)
	require("application.window.title", cfg.Application.Window.Title)
	if cfg.Application.Window.Width == 0 {
		missing = append(missing, "application.window.width")
	}
	if cfg.Application.Window.Height == 0 {
		missing = append(missing, "application.window.height")
	}

	c := cfg.Application.Control
	require("application.control.forward", c.Forward)
	require("application.control.backward", c.Backward)
	require("application.control.left", c.Left)
	require("application.control.right", c.Right)
	require("application.control.jump", c.Jump)
	require("application.control.squat", c.Squat)
	require("application.control.sprint", c.Sprint)
	require("application.control.attack", c.Attack)
	require("application.control.free_camera", c.FreeCamera)

	e := cfg.Engine
	require("engine.root", e.Root)
	require("engine.asset", e.Asset)
	require("engine.schema", e.Schema)
	require("engine.default_world", e.DefaultWorld)
	require("engine.big_icon", e.BigIcon)
	require("engine.small_icon", e.SmallIcon)
	require("engine.font", e.Font)
	require("engine.global_rendering_settings", e.GlobalRenderingSettings)
	require("engine.global_particle_setting", e.GlobalParticleSetting)
	require("engine.jolt_asset", e.JoltAsset)

	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("config: missing required keys: %s", strings.Join(missing, ", "))
}
