package param

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/schema"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.SetAliasTag("json")
	decoder.IgnoreUnknownKeys(true)
}

// Binding binds query values or a json body into params. Query values win
// for GET requests, a json body for everything else.
func Binding(r *http.Request, params interface{}) error {
	if r.Method == http.MethodGet {
		if err := r.ParseForm(); err != nil {
			return err
		}

		return decoder.Decode(params, r.Form)
	}

	if typ := r.Header.Get("Content-Type"); strings.HasPrefix(typ, "application/json") {
		return json.NewDecoder(r.Body).Decode(params)
	}

	if err := r.ParseForm(); err != nil {
		return err
	}

	return decoder.Decode(params, r.PostForm)
}
