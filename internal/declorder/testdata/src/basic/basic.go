package basic // want `declarations are not in canonical order \(const, var, type, func\): move Answer, limit, Greet`

// Greet says hello.
func Greet() string { return "hello" }

// Answer is the answer.
const Answer = 42

var limit = 10
