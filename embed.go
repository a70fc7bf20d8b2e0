package ydb

import "embed"

// EmbeddedAssets holds the files shipped inside the binary: the site
// stylesheet and the admin instructions.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS

const instructionsFile = "embedded/instructions.md"
