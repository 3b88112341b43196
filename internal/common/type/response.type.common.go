package types

type Response struct {
	Data    any
	Message string
	Code    int
	Error   error
}
