package cpmf

import "encoding/json"

// The counterpart implementation pretty-prints with 4-space indentation;
// matching it keeps clipboard diffs stable across applications.
func marshalJSONIndent(d *Document) ([]byte, error) {
	return json.MarshalIndent(d, "", "    ")
}

func unmarshalJSON(data []byte, d *Document) error {
	return json.Unmarshal(data, d)
}
