// Package web menanamkan aset halaman depan ke dalam binary.
package web

import "embed"

//go:embed index.html
var StaticFS embed.FS
