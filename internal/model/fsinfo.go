// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the FSInfo struct, which stores file system metadata.
//
// Why store the file path?
//
// The asset path of a graph is the key from which its code generation cache
// folder is derived, so two graphs never write into the same folder. It also
// names the container under which secondary assets are persisted, and lets
// load errors point at the offending file.
package model

import (
	"path"
	"strings"
)

// FSInfo links a tree back to the asset it was loaded from.
type FSInfo struct {
	FilePath string
}

func NewFSInfo(filePath string) *FSInfo {
	return &FSInfo{
		FilePath: filePath,
	}
}

// AssetPath is the slash-separated file path, with any leading "./" removed.
func (f *FSInfo) AssetPath() string {
	if f == nil {
		return ""
	}
	p := strings.ReplaceAll(f.FilePath, "\\", "/")
	return strings.TrimPrefix(path.Clean(p), "./")
}
