package trailing // want `declarations are not in canonical order \(const, var, type, func\): move limit, show`

import "fmt"

func show() { fmt.Println(limit) } // prints

var limit = 3 // default
