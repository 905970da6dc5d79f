// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"golang.org/x/image/bmp"
)

func init() {
	// BMP is a common window-icon source format stdlib's image package
	// doesn't register a decoder for on its own.
	image.RegisterFormat("bmp", "BM", bmp.Decode, bmp.DecodeConfig)
}

// Icons holds the decoded engine.big_icon/small_icon images a windowing
// layer passes to its SetIcon-equivalent call.
type Icons struct {
	Big   image.Image
	Small image.Image
}

// LoadIcons decodes cfg's engine.big_icon and engine.small_icon files.
// Format is sniffed from file content (png, jpeg, or bmp), not extension.
func LoadIcons(cfg *ApplicationConfig) (*Icons, error) {
	big, err := decodeIconFile(cfg.Engine.BigIcon)
	if err != nil {
		return nil, fmt.Errorf("config: engine.big_icon: %w", err)
	}
	small, err := decodeIconFile(cfg.Engine.SmallIcon)
	if err != nil {
		return nil, fmt.Errorf("config: engine.small_icon: %w", err)
	}
	return &Icons{Big: big, Small: small}, nil
}

func decodeIconFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}
