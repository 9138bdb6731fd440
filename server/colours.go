package server

const (
	green  = "\033[32m"
	yellow = "\033[33m"
	blue   = "\033[34m"
	red    = "\033[31m"
	gray   = "\033[90m" // Bright black, often appears as gray

	resetColor = "\033[0m" // Reset to default color
)

// methodColors drives the DEV route table log.
var methodColors = map[string]string{
	"GET":    green,
	"POST":   yellow,
	"PUT":    blue,
	"DELETE": red,
}
