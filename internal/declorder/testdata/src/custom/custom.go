package custom // want `declarations are not in canonical order \(type, func\): move box, open`

const pinned = 1

func open() *box { return &box{} }

type box struct{}
