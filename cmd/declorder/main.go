// declorder reports Go files whose top-level declarations are not grouped
// in canonical kind order and can rewrite them.
//
// Usage:
//
//	declorder [-order=const,var,type,func] [-fix] ./...
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/declorder"
)

func main() {
	singlechecker.Main(declorder.Analyzer)
}
