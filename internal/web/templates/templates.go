// Package templates embeds the dashboard's HTML templates and static assets.
package templates

import "embed"

//go:embed *.html pages/*.html partials/*.html static/*
var FS embed.FS
