package web

import "embed"

// StaticFS embeds the landing page and its assets. The SPA itself is a
// separate deployment; this only confirms the API is up.
//
//go:embed static/*
var StaticFS embed.FS
