//go:build !cgo

package javasrc

import (
	"context"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/source"
)

// Parse is unavailable without cgo.
func Parse(ctx context.Context, file *source.File) (*Unit, error) {
	return nil, ErrNoCGO
}

// Available reports whether Java parsing is compiled in.
func Available() bool { return false }
