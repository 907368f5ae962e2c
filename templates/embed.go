// Package templates embeds the HTML templates rendered by the view package.
package templates

import "embed"

//go:embed layout.html dashboard.html calendar.html auth/*.html orders/*.html clients/*.html partials/*.html
var FS embed.FS
