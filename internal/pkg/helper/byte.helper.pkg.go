package helper

import "encoding/json"

func ByteToStruct[I any](payload []byte, result *I) error {
	return json.Unmarshal(payload, result)
}
