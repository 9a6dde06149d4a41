// Code generated by hand for tests. DO NOT EDIT.

package generated

func first() {}

const second = 2
