package enum

type HTTPMethodEnum string

const (
	GET     HTTPMethodEnum = "GET"
	POST    HTTPMethodEnum = "POST"
	OPTIONS HTTPMethodEnum = "OPTIONS"
)

func (e HTTPMethodEnum) ToString() string {
	switch e {
	case GET, POST, OPTIONS:
		return string(e)
	default:
		return ""
	}
}
