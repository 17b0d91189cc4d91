package scheme

import (
	"io"

	"github.com/BurntSushi/toml"
)

func tomlEncode(w io.Writer, v interface{}) error {
	return toml.NewEncoder(w).Encode(v)
}
